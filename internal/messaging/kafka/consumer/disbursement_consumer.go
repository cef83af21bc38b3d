package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/snapshot"
	snapshoterrors "go-payroll/internal/snapshot/errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSnapshotDisbursed applies disbursement confirmations from the
// payment system: each event moves one APPROVED snapshot to PAID.
//
// Malformed events and events for unknown or already-paid snapshots are
// committed and skipped; redelivery would never make them succeed. Transient
// failures are left uncommitted so the message is retried.
func ConsumeSnapshotDisbursed(
	ctx context.Context,
	reader *kafkago.Reader,
	snapshotService snapshot.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.disbursement")
	log.Info("disbursement consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("disbursement consumer stopped")
				return
			}
			log.Error("fetch disbursement message failed", zap.Error(err))
			continue
		}

		var event events.SnapshotDisbursedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode snapshot disbursed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		snapshotID, err := uuid.Parse(event.SnapshotID)
		if err != nil {
			log.Error("snapshot disbursed event carries an invalid snapshot id",
				zap.String("snapshot_id", event.SnapshotID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		paidAt := event.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now().UTC()
		}

		if err := snapshotService.MarkPaid(ctx, snapshotID, paidAt); err != nil {
			if isUnrecoverable(err) {
				log.Warn("skipping disbursement event",
					zap.String("snapshot_id", event.SnapshotID),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("mark snapshot paid failed",
				zap.String("snapshot_id", event.SnapshotID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit disbursement message failed", zap.Error(err))
			continue
		}

		log.Info("snapshot marked paid from disbursement event",
			zap.String("snapshot_id", event.SnapshotID),
			zap.String("user_id", event.UserID),
			zap.Int("year", event.Year),
			zap.Int("month", event.Month),
		)
	}
}

// isUnrecoverable reports whether retrying the event can never succeed.
func isUnrecoverable(err error) bool {
	return errors.Is(err, snapshoterrors.ErrSnapshotNotFound) ||
		errors.Is(err, snapshoterrors.ErrInvalidTransition)
}
