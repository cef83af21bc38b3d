package snapshot

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/salary"
	snapshoterrors "go-payroll/internal/snapshot/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSnapshotRepository struct {
	createFn          func(ctx context.Context, snap *Snapshot) error
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	findByKeyFn       func(ctx context.Context, userID uuid.UUID, year, month int) (*Snapshot, error)
	listFn            func(ctx context.Context, f ListFilter) ([]Snapshot, error)
	countFn           func(ctx context.Context, f ListFilter) (int64, error)
	updateSalaryFn    func(ctx context.Context, id uuid.UUID, fresh *Snapshot, expectedVersion int64) (int64, error)
	updateStatusFn    func(ctx context.Context, id uuid.UUID, from, to string, expectedVersion int64, extra map[string]interface{}) (int64, error)
	annotateRatesFn   func(ctx context.Context, userID uuid.UUID, year, month int, source string, rf salary.RateFields) error
}

func (f *fakeSnapshotRepository) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeSnapshotRepository) Create(ctx context.Context, snap *Snapshot) error {
	return f.createFn(ctx, snap)
}

func (f *fakeSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeSnapshotRepository) FindByKey(ctx context.Context, userID uuid.UUID, year, month int) (*Snapshot, error) {
	return f.findByKeyFn(ctx, userID, year, month)
}

func (f *fakeSnapshotRepository) List(ctx context.Context, filter ListFilter) ([]Snapshot, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeSnapshotRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return f.countFn(ctx, filter)
}

func (f *fakeSnapshotRepository) UpdateSalaryCAS(ctx context.Context, id uuid.UUID, fresh *Snapshot, expectedVersion int64) (int64, error) {
	return f.updateSalaryFn(ctx, id, fresh, expectedVersion)
}

func (f *fakeSnapshotRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to string, expectedVersion int64, extra map[string]interface{}) (int64, error) {
	return f.updateStatusFn(ctx, id, from, to, expectedVersion, extra)
}

func (f *fakeSnapshotRepository) AnnotateRates(ctx context.Context, userID uuid.UUID, year, month int, source string, rf salary.RateFields) error {
	return f.annotateRatesFn(ctx, userID, year, month, source, rf)
}

// memSnapshotRepository backs GetOrCreate race tests with a real uniqueness
// constraint.
type memSnapshotRepository struct {
	fakeSnapshotRepository

	mu   sync.Mutex
	rows map[string]*Snapshot
}

func newMemSnapshotRepository() *memSnapshotRepository {
	return &memSnapshotRepository{rows: map[string]*Snapshot{}}
}

func (m *memSnapshotRepository) key(userID uuid.UUID, year, month int) string {
	return Key{UserID: userID, Year: year, Month: month}.String()
}

func (m *memSnapshotRepository) Create(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(snap.UserID, snap.Year, snap.Month)
	if _, exists := m.rows[k]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_snapshots_user_period"}
	}
	clone := *snap
	m.rows[k] = &clone
	return nil
}

func (m *memSnapshotRepository) FindByKey(ctx context.Context, userID uuid.UUID, year, month int) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap, ok := m.rows[m.key(userID, year, month)]; ok {
		clone := *snap
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func calculatedSnapshot(userID uuid.UUID) *Snapshot {
	return &Snapshot{
		ID:              uuid.New(),
		UserID:          userID,
		Year:            2025,
		Month:           1,
		EmploymentType:  "DAILY_RATE",
		TotalGrossPay:   200000,
		TotalDeductions: 23660,
		NetPay:          176340,
		Status:          StatusCalculated,
		Version:         1,
	}
}

func referenceSalary(userID uuid.UUID) salary.MonthlySalary {
	return salary.MonthlySalary{
		UserID:          userID,
		Year:            2025,
		Month:           1,
		EmploymentType:  "DAILY_RATE",
		TotalGrossPay:   200000,
		TotalDeductions: 23660,
		NetPay:          176340,
		RateSource:      "DEFAULT",
	}
}

func TestService_GetOrCreate(t *testing.T) {
	userID := uuid.New()
	key := Key{UserID: userID, Year: 2025, Month: 1}

	t.Run("creates when absent", func(t *testing.T) {
		var created *Snapshot
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, snap *Snapshot) error {
				created = snap
				return nil
			},
		}
		svc := NewService(repo, nil)

		computeCalls := 0
		resp, wasCreated, err := svc.GetOrCreate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			computeCalls++
			return referenceSalary(userID), nil
		})

		assert.NoError(t, err)
		assert.True(t, wasCreated)
		assert.Equal(t, 1, computeCalls)
		assert.Equal(t, StatusCalculated, resp.Status)
		assert.Equal(t, int64(1), resp.Version)
		assert.Equal(t, int64(176340), resp.NetPay)
		assert.Equal(t, StatusCalculated, created.Status)
		assert.Equal(t, int64(1), created.Version)
	})

	t.Run("returns existing without computing", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
		}
		svc := NewService(repo, nil)

		resp, wasCreated, err := svc.GetOrCreate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			t.Fatal("compute must not run when the snapshot exists")
			return salary.MonthlySalary{}, nil
		})

		assert.NoError(t, err)
		assert.False(t, wasCreated)
		assert.Equal(t, existing.ID.String(), resp.ID)
	})

	t.Run("unique violation falls back to the winning row", func(t *testing.T) {
		winner := calculatedSnapshot(userID)
		lookups := 0
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				lookups++
				if lookups == 1 {
					return nil, gorm.ErrRecordNotFound
				}
				return winner, nil
			},
			createFn: func(ctx context.Context, snap *Snapshot) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := NewService(repo, nil)

		resp, wasCreated, err := svc.GetOrCreate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return referenceSalary(userID), nil
		})

		assert.NoError(t, err)
		assert.False(t, wasCreated)
		assert.Equal(t, winner.ID.String(), resp.ID)
		assert.Equal(t, 2, lookups)
	})

	t.Run("compute failure creates nothing", func(t *testing.T) {
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, snap *Snapshot) error {
				t.Fatal("create must not run when compute fails")
				return nil
			},
		}
		svc := NewService(repo, nil)

		_, _, err := svc.GetOrCreate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return salary.MonthlySalary{}, assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestService_GetOrCreate_ConcurrentCallersConverge(t *testing.T) {
	userID := uuid.New()
	key := Key{UserID: userID, Year: 2025, Month: 1}
	repo := newMemSnapshotRepository()
	svc := NewService(repo, nil)

	var computeCalls int64
	var computeMu sync.Mutex
	compute := func(ctx context.Context) (salary.MonthlySalary, error) {
		computeMu.Lock()
		computeCalls++
		computeMu.Unlock()
		return referenceSalary(userID), nil
	}

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, _, err := svc.GetOrCreate(context.Background(), key, compute)
			assert.NoError(t, err)
			ids[i] = resp.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), computeCalls)
}

func TestService_Recalculate(t *testing.T) {
	userID := uuid.New()
	key := Key{UserID: userID, Year: 2025, Month: 1}

	t.Run("rewrites a calculated snapshot and bumps version", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		updated := *existing
		updated.NetPay = 150000
		updated.Version = 2

		var casVersion int64
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
			updateSalaryFn: func(ctx context.Context, id uuid.UUID, fresh *Snapshot, expectedVersion int64) (int64, error) {
				casVersion = expectedVersion
				assert.Equal(t, existing.ID, id)
				return 1, nil
			},
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
				return &updated, nil
			},
		}
		svc := NewService(repo, nil)

		fresh := referenceSalary(userID)
		fresh.NetPay = 150000
		resp, err := svc.Recalculate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return fresh, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), casVersion)
		assert.Equal(t, int64(2), resp.Version)
		assert.Equal(t, int64(150000), resp.NetPay)
	})

	t.Run("approved snapshot is frozen", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		existing.Status = StatusApproved
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
		}
		svc := NewService(repo, nil)

		_, err := svc.Recalculate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			t.Fatal("compute must not run for a frozen snapshot")
			return salary.MonthlySalary{}, nil
		})

		assert.ErrorIs(t, err, snapshoterrors.ErrSnapshotFrozen)
	})

	t.Run("paid snapshot is frozen", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		existing.Status = StatusPaid
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
		}
		svc := NewService(repo, nil)

		_, err := svc.Recalculate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return salary.MonthlySalary{}, nil
		})

		assert.ErrorIs(t, err, snapshoterrors.ErrSnapshotFrozen)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo, nil)

		_, err := svc.Recalculate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return salary.MonthlySalary{}, nil
		})

		assert.ErrorIs(t, err, snapshoterrors.ErrSnapshotNotFound)
	})

	t.Run("lost compare-and-swap", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
			updateSalaryFn: func(ctx context.Context, id uuid.UUID, fresh *Snapshot, expectedVersion int64) (int64, error) {
				return 0, nil
			},
		}
		svc := NewService(repo, nil)

		_, err := svc.Recalculate(context.Background(), key, func(ctx context.Context) (salary.MonthlySalary, error) {
			return referenceSalary(userID), nil
		})

		assert.ErrorIs(t, err, snapshoterrors.ErrVersionConflict)
	})
}

func TestService_MarkPaid(t *testing.T) {
	userID := uuid.New()
	paidAt := time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC)

	t.Run("approved snapshot transitions to paid", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		existing.Status = StatusApproved
		existing.Version = 2

		var gotFrom, gotTo string
		var gotExtra map[string]interface{}
		repo := &fakeSnapshotRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
				return existing, nil
			},
			updateStatusFn: func(ctx context.Context, id uuid.UUID, from, to string, expectedVersion int64, extra map[string]interface{}) (int64, error) {
				gotFrom, gotTo, gotExtra = from, to, extra
				assert.Equal(t, int64(2), expectedVersion)
				return 1, nil
			},
		}
		svc := NewService(repo, nil)

		err := svc.MarkPaid(context.Background(), existing.ID, paidAt)

		assert.NoError(t, err)
		assert.Equal(t, StatusApproved, gotFrom)
		assert.Equal(t, StatusPaid, gotTo)
		assert.Equal(t, paidAt, gotExtra["paid_at"])
	})

	t.Run("already paid is a no-op", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		existing.Status = StatusPaid
		repo := &fakeSnapshotRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
				return existing, nil
			},
			updateStatusFn: func(ctx context.Context, id uuid.UUID, from, to string, expectedVersion int64, extra map[string]interface{}) (int64, error) {
				t.Fatal("no update expected for an already paid snapshot")
				return 0, nil
			},
		}
		svc := NewService(repo, nil)

		assert.NoError(t, svc.MarkPaid(context.Background(), existing.ID, paidAt))
	})

	t.Run("calculated snapshot cannot skip approval", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		repo := &fakeSnapshotRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
				return existing, nil
			},
		}
		svc := NewService(repo, nil)

		err := svc.MarkPaid(context.Background(), existing.ID, paidAt)
		assert.ErrorIs(t, err, snapshoterrors.ErrInvalidTransition)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		repo := &fakeSnapshotRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo, nil)

		err := svc.MarkPaid(context.Background(), uuid.New(), paidAt)
		assert.ErrorIs(t, err, snapshoterrors.ErrSnapshotNotFound)
	})
}

func TestService_FindSalary(t *testing.T) {
	userID := uuid.New()

	t.Run("absent key yields nil without error", func(t *testing.T) {
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo, nil)

		got, err := svc.FindSalary(context.Background(), userID, 2025, 1)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("existing snapshot maps back to a salary payload", func(t *testing.T) {
		existing := calculatedSnapshot(userID)
		existing.RateSource = "DEFAULT"
		existing.HealthInsuranceRateBps = 343
		repo := &fakeSnapshotRepository{
			findByKeyFn: func(ctx context.Context, uid uuid.UUID, year, month int) (*Snapshot, error) {
				return existing, nil
			},
		}
		svc := NewService(repo, nil)

		got, err := svc.FindSalary(context.Background(), userID, 2025, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(176340), got.NetPay)
		assert.Equal(t, "DEFAULT", got.RateSource)
		assert.Equal(t, int64(343), got.Rates.HealthInsuranceBps)
	})
}

func TestListSnapshotsQuery_ToFilter(t *testing.T) {
	t.Run("invalid status filter", func(t *testing.T) {
		_, err := ListSnapshotsQuery{Status: "DRAFT"}.toFilter()
		assert.ErrorIs(t, err, snapshoterrors.ErrInvalidStatusFilter)
	})

	t.Run("defaults and offsets", func(t *testing.T) {
		f, err := ListSnapshotsQuery{Status: StatusApproved, Page: 3, PageSize: 10}.toFilter()
		assert.NoError(t, err)
		assert.Equal(t, []string{StatusApproved}, f.Statuses)
		assert.Equal(t, 10, f.Limit)
		assert.Equal(t, 20, f.Offset)
	})

	t.Run("page size is capped", func(t *testing.T) {
		f, err := ListSnapshotsQuery{PageSize: 5000}.toFilter()
		assert.NoError(t, err)
		assert.Equal(t, maxListPageSize, f.Limit)
	})

	t.Run("period bounds", func(t *testing.T) {
		f, err := ListSnapshotsQuery{From: "2024-11", To: "2025-06"}.toFilter()
		assert.NoError(t, err)
		assert.Equal(t, 2024, f.FromYear)
		assert.Equal(t, 11, f.FromMonth)
		assert.Equal(t, 2025, f.ToYear)
		assert.Equal(t, 6, f.ToMonth)
	})

	t.Run("open-ended period bounds", func(t *testing.T) {
		f, err := ListSnapshotsQuery{From: "2025-03"}.toFilter()
		assert.NoError(t, err)
		assert.Equal(t, 2025, f.FromYear)
		assert.Zero(t, f.ToYear)
	})

	t.Run("malformed period", func(t *testing.T) {
		_, err := ListSnapshotsQuery{From: "march 2025"}.toFilter()
		assert.ErrorIs(t, err, snapshoterrors.ErrInvalidPeriodRange)
	})

	t.Run("inverted period range", func(t *testing.T) {
		_, err := ListSnapshotsQuery{From: "2025-06", To: "2025-01"}.toFilter()
		assert.ErrorIs(t, err, snapshoterrors.ErrInvalidPeriodRange)
	})
}
