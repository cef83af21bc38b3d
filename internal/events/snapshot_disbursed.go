package events

import "time"

const SnapshotDisbursedTopic = "payroll.snapshot.disbursed.v1"

// SnapshotDisbursedEvent is produced by the external disbursement system once
// an approved month has actually been paid out.
type SnapshotDisbursedEvent struct {
	EventType  string    `json:"event_type"`
	SnapshotID string    `json:"snapshot_id"`
	UserID     string    `json:"user_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	PaidAt     time.Time `json:"paid_at"`
	OccurredAt time.Time `json:"occurred_at"`
}
