package events

import "time"

const SnapshotApprovedTopic = "payroll.snapshot.approved.v1"

type SnapshotApprovedEvent struct {
	EventType  string    `json:"event_type"`
	SnapshotID string    `json:"snapshot_id"`
	UserID     string    `json:"user_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	NetPay     int64     `json:"net_pay"`
	ApprovedBy string    `json:"approved_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
