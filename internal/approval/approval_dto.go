package approval

import (
	"time"

	"go-payroll/internal/snapshot"
)

type ApproveSnapshotRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
}

type BulkApproveRequest struct {
	Entries []ApproveSnapshotRequest `json:"entries" binding:"required,dive"`
}

type ApprovalResponse struct {
	SnapshotID string `json:"snapshot_id"`
	UserID     string `json:"user_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Status     string `json:"status"`
	Version    int64  `json:"version"`
	NetPay     int64  `json:"net_pay"`
	ApprovedBy string `json:"approved_by"`
	ApprovedAt string `json:"approved_at"`
}

// EntryError carries the failure for one bulk entry without aborting the rest.
type EntryError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BulkEntryResult struct {
	UserID   string            `json:"user_id"`
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Ok       bool              `json:"ok"`
	Approved *ApprovalResponse `json:"approved,omitempty"`
	Error    *EntryError       `json:"error,omitempty"`
}

type BulkApproveResponse struct {
	ApprovedCount int               `json:"approved_count"`
	Results       []BulkEntryResult `json:"results"`
}

func mapToApprovalResponse(snap snapshot.Snapshot, approvedBy string, approvedAt time.Time) ApprovalResponse {
	return ApprovalResponse{
		SnapshotID: snap.ID.String(),
		UserID:     snap.UserID.String(),
		Year:       snap.Year,
		Month:      snap.Month,
		Status:     snapshot.StatusApproved,
		Version:    snap.Version + 1,
		NetPay:     snap.NetPay,
		ApprovedBy: approvedBy,
		ApprovedAt: approvedAt.Format(time.RFC3339),
	}
}

// mapAlreadyApproved reports an APPROVED row as-is; the original approver and
// timestamp are preserved.
func mapAlreadyApproved(snap snapshot.Snapshot) ApprovalResponse {
	resp := ApprovalResponse{
		SnapshotID: snap.ID.String(),
		UserID:     snap.UserID.String(),
		Year:       snap.Year,
		Month:      snap.Month,
		Status:     snap.Status,
		Version:    snap.Version,
		NetPay:     snap.NetPay,
	}
	if snap.ApprovedBy != nil {
		resp.ApprovedBy = snap.ApprovedBy.String()
	}
	if snap.ApprovedAt != nil {
		resp.ApprovedAt = snap.ApprovedAt.Format(time.RFC3339)
	}
	return resp
}
