package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-payroll/internal/salary"
	snapshoterrors "go-payroll/internal/snapshot/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComputeFn produces the salary payload for a snapshot that does not exist
// yet. It is only invoked after the store has been checked, so it must not
// consult the snapshot store itself.
type ComputeFn func(ctx context.Context) (salary.MonthlySalary, error)

// Key identifies one snapshot: one worker, one calendar month.
type Key struct {
	UserID uuid.UUID
	Year   int
	Month  int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%04d-%02d", k.UserID, k.Year, k.Month)
}

//go:generate mockgen -source=snapshot_service.go -destination=mock/snapshot_service_mock.go -package=mock
type Service interface {
	// GetOrCreate returns the existing snapshot for the key, or computes and
	// freezes a new one. The bool is true when a new row was created.
	GetOrCreate(ctx context.Context, key Key, compute ComputeFn) (SnapshotResponse, bool, error)
	// Recalculate rewrites the payload of a CALCULATED snapshot. Approved and
	// paid snapshots are frozen.
	Recalculate(ctx context.Context, key Key, compute ComputeFn) (SnapshotResponse, error)
	List(ctx context.Context, q ListSnapshotsQuery) ([]SnapshotResponse, int64, error)
	// MarkPaid moves an APPROVED snapshot to PAID. Already-PAID is a no-op.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error

	// salary.SnapshotSource
	FindSalary(ctx context.Context, userID uuid.UUID, year, month int) (*salary.MonthlySalary, error)
	AnnotateRates(ctx context.Context, userID uuid.UUID, year, month int, source string, rf salary.RateFields) error
}

type service struct {
	repo   Repository
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:   repo,
		logger: logger.Named("snapshot.service"),
		locks:  map[string]*sync.Mutex{},
	}
}

// keyLock serializes snapshot writes for one key inside this process. The
// database unique index stays the authority across processes; the lock only
// avoids computing the same month twice under local contention.
func (s *service) keyLock(key Key) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[key.String()]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key.String()] = m
	}
	return m
}

func (s *service) GetOrCreate(ctx context.Context, key Key, compute ComputeFn) (SnapshotResponse, bool, error) {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.FindByKey(ctx, key.UserID, key.Year, key.Month)
	if err == nil {
		return mapToResponse(*existing), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SnapshotResponse{}, false, err
	}

	payload, err := compute(ctx)
	if err != nil {
		return SnapshotResponse{}, false, err
	}

	snap := fromSalary(payload)
	snap.UserID = key.UserID
	snap.Year = key.Year
	snap.Month = key.Month

	if err := s.repo.Create(ctx, snap); err != nil {
		if isUniqueViolation(err) {
			winner, rerr := s.repo.FindByKey(ctx, key.UserID, key.Year, key.Month)
			if rerr != nil {
				return SnapshotResponse{}, false, rerr
			}
			s.logger.Info("lost snapshot insert race, returning winning row",
				zap.String("key", key.String()),
			)
			return mapToResponse(*winner), false, nil
		}
		return SnapshotResponse{}, false, err
	}

	s.logger.Info("snapshot created",
		zap.String("key", key.String()),
		zap.Int64("net_pay", snap.NetPay),
	)
	return mapToResponse(*snap), true, nil
}

func (s *service) Recalculate(ctx context.Context, key Key, compute ComputeFn) (SnapshotResponse, error) {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.FindByKey(ctx, key.UserID, key.Year, key.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SnapshotResponse{}, snapshoterrors.ErrSnapshotNotFound
		}
		return SnapshotResponse{}, err
	}

	if existing.Status != StatusCalculated {
		return SnapshotResponse{}, snapshoterrors.ErrSnapshotFrozen
	}

	payload, err := compute(ctx)
	if err != nil {
		return SnapshotResponse{}, err
	}
	fresh := fromSalary(payload)

	rows, err := s.repo.UpdateSalaryCAS(ctx, existing.ID, fresh, existing.Version)
	if err != nil {
		return SnapshotResponse{}, err
	}
	if rows == 0 {
		return SnapshotResponse{}, snapshoterrors.ErrVersionConflict
	}

	updated, err := s.repo.FindByID(ctx, existing.ID)
	if err != nil {
		return SnapshotResponse{}, err
	}

	s.logger.Info("snapshot recalculated",
		zap.String("key", key.String()),
		zap.Int64("version", updated.Version),
	)
	return mapToResponse(*updated), nil
}

func (s *service) List(ctx context.Context, q ListSnapshotsQuery) ([]SnapshotResponse, int64, error) {
	filter, err := q.toFilter()
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	snaps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return mapToListResponse(snaps), total, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return snapshoterrors.ErrSnapshotNotFound
		}
		return err
	}

	switch snap.Status {
	case StatusPaid:
		return nil
	case StatusApproved:
		rows, err := s.repo.UpdateStatusCAS(ctx, id, StatusApproved, StatusPaid, snap.Version, map[string]interface{}{
			"paid_at": paidAt,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return snapshoterrors.ErrVersionConflict
		}
		s.logger.Info("snapshot paid",
			zap.String("snapshot_id", id.String()),
			zap.Time("paid_at", paidAt),
		)
		return nil
	default:
		return snapshoterrors.ErrInvalidTransition
	}
}

func (s *service) FindSalary(ctx context.Context, userID uuid.UUID, year, month int) (*salary.MonthlySalary, error) {
	snap, err := s.repo.FindByKey(ctx, userID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	payload := snap.toSalary()
	return &payload, nil
}

func (s *service) AnnotateRates(
	ctx context.Context,
	userID uuid.UUID,
	year, month int,
	source string,
	rf salary.RateFields,
) error {
	return s.repo.AnnotateRates(ctx, userID, year, month, source, rf)
}
