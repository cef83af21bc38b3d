package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	salaryerrors "go-payroll/internal/salary/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/snapshot"
	snapshoterrors "go-payroll/internal/snapshot/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxBulkEntries = 100

//go:generate mockgen -source=coordinator.go -destination=mock/coordinator_mock.go -package=mock
type Coordinator interface {
	// Approve moves a CALCULATED snapshot to APPROVED and stages the approval
	// event in the outbox, both inside one transaction. Approving an already
	// APPROVED snapshot succeeds without touching it.
	Approve(ctx context.Context, approverID string, req ApproveSnapshotRequest) (ApprovalResponse, error)
	// BulkApprove applies Approve to each entry independently; one failing
	// entry never rolls back the others. A cancelled context stops the batch
	// and returns the results accumulated so far alongside the error.
	BulkApprove(ctx context.Context, approverID string, req BulkApproveRequest) (BulkApproveResponse, error)
}

type coordinator struct {
	db        *sql.DB
	snapshots snapshot.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewCoordinator(
	db *sql.DB,
	snapshots snapshot.Repository,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &coordinator{
		db:        db,
		snapshots: snapshots,
		outbox:    outbox,
		logger:    logger.Named("approval.coordinator"),
	}
}

func (c *coordinator) Approve(
	ctx context.Context,
	approverID string,
	req ApproveSnapshotRequest,
) (ApprovalResponse, error) {
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return ApprovalResponse{}, approvalerrors.ErrInvalidApproverID
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return ApprovalResponse{}, salaryerrors.ErrInvalidUserID
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return ApprovalResponse{}, err
	}
	defer tx.Rollback()

	qtx := c.snapshots.WithTx(tx)

	snap, err := qtx.FindByKey(ctx, userID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResponse{}, snapshoterrors.ErrSnapshotNotFound
		}
		return ApprovalResponse{}, err
	}

	switch snap.Status {
	case snapshot.StatusApproved:
		return mapAlreadyApproved(*snap), nil
	case snapshot.StatusPaid:
		return ApprovalResponse{}, snapshoterrors.ErrInvalidTransition
	}

	approvedAt := time.Now().UTC()
	rows, err := qtx.UpdateStatusCAS(
		ctx,
		snap.ID,
		snapshot.StatusCalculated,
		snapshot.StatusApproved,
		snap.Version,
		map[string]interface{}{
			"approved_by": approverUUID,
			"approved_at": approvedAt,
		},
	)
	if err != nil {
		return ApprovalResponse{}, err
	}
	if rows == 0 {
		// Another request changed the row between read and update. If it was
		// a concurrent approval the idempotence contract still holds.
		current, rerr := qtx.FindByID(ctx, snap.ID)
		if rerr != nil {
			return ApprovalResponse{}, snapshoterrors.ErrVersionConflict
		}
		switch current.Status {
		case snapshot.StatusApproved:
			return mapAlreadyApproved(*current), nil
		case snapshot.StatusPaid:
			return ApprovalResponse{}, snapshoterrors.ErrInvalidTransition
		}
		return ApprovalResponse{}, snapshoterrors.ErrVersionConflict
	}

	payload, err := json.Marshal(events.SnapshotApprovedEvent{
		EventType:  "snapshot_approved",
		SnapshotID: snap.ID.String(),
		UserID:     snap.UserID.String(),
		Year:       snap.Year,
		Month:      snap.Month,
		NetPay:     snap.NetPay,
		ApprovedBy: approverUUID.String(),
		OccurredAt: approvedAt,
	})
	if err != nil {
		return ApprovalResponse{}, err
	}

	outboxEvent := kafka.NewPendingEvent(
		contextutil.GetRequestID(ctx),
		"salary_snapshot",
		snap.ID.String(),
		"snapshot_approved",
		events.SnapshotApprovedTopic,
		payload,
	)
	if err := c.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return ApprovalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ApprovalResponse{}, err
	}

	c.logger.Info("snapshot approved",
		zap.String("snapshot_id", snap.ID.String()),
		zap.String("user_id", snap.UserID.String()),
		zap.Int("year", snap.Year),
		zap.Int("month", snap.Month),
		zap.String("approved_by", approverUUID.String()),
	)

	return mapToApprovalResponse(*snap, approverUUID.String(), approvedAt), nil
}

func (c *coordinator) BulkApprove(
	ctx context.Context,
	approverID string,
	req BulkApproveRequest,
) (BulkApproveResponse, error) {
	if _, err := uuid.Parse(approverID); err != nil {
		return BulkApproveResponse{}, approvalerrors.ErrInvalidApproverID
	}
	if len(req.Entries) == 0 {
		return BulkApproveResponse{}, approvalerrors.ErrEmptyBulkRequest
	}
	if len(req.Entries) > maxBulkEntries {
		return BulkApproveResponse{}, approvalerrors.ErrBulkTooLarge
	}

	resp := BulkApproveResponse{
		Results: make([]BulkEntryResult, 0, len(req.Entries)),
	}

	for _, entry := range req.Entries {
		// Each entry runs in its own transaction; cancellation is honored
		// between entries so a finished approval is never rolled back. The
		// partial results travel with the error so committed approvals stay
		// visible to the caller.
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		result := BulkEntryResult{
			UserID: entry.UserID,
			Year:   entry.Year,
			Month:  entry.Month,
		}

		approved, err := c.Approve(ctx, approverID, entry)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			result.Error = &EntryError{Code: httpErr.Code, Message: httpErr.Message}
			c.logger.Warn("bulk approval entry failed",
				zap.String("user_id", entry.UserID),
				zap.Int("year", entry.Year),
				zap.Int("month", entry.Month),
				zap.Error(err),
			)
		} else {
			result.Ok = true
			result.Approved = &approved
			resp.ApprovedCount++
		}

		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}
