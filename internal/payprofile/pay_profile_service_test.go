package payprofile_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/payprofile"
	payprofileerrors "go-payroll/internal/payprofile/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeProfileRepository struct {
	withTxFn        func(tx *sql.Tx) payprofile.Repository
	createFn        func(ctx context.Context, p *payprofile.PayProfile) error
	findEffectiveFn func(ctx context.Context, userID uuid.UUID, asOf time.Time) (*payprofile.PayProfile, error)
	findAllByUserFn func(ctx context.Context, userID uuid.UUID) ([]payprofile.PayProfile, error)
}

func (f *fakeProfileRepository) WithTx(tx *sql.Tx) payprofile.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeProfileRepository) Create(ctx context.Context, p *payprofile.PayProfile) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeProfileRepository) FindEffective(ctx context.Context, userID uuid.UUID, asOf time.Time) (*payprofile.PayProfile, error) {
	if f.findEffectiveFn != nil {
		return f.findEffectiveFn(ctx, userID, asOf)
	}
	return nil, nil
}

func (f *fakeProfileRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]payprofile.PayProfile, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestPayProfileService_Create(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeProfileRepository{}
	svc := payprofile.NewService(db, repo)

	ctx := context.Background()
	userID := uuid.New()

	t.Run("success daily rate", func(t *testing.T) {
		req := payprofile.CreatePayProfileRequest{
			UserID:         userID.String(),
			EmploymentType: "DAILY_RATE",
			DailyRate:      100000,
			EffectiveDate:  "2025-01-01",
		}

		expectTx(t, sqlMock, true)

		repo.createFn = func(ctx context.Context, p *payprofile.PayProfile) error {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, int64(100000), p.DailyRate)
			// zero standard hours defaults to 8
			assert.Equal(t, int64(8), p.StandardDailyHours)
			return nil
		}

		resp, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "DAILY_RATE", resp.EmploymentType)
		assert.Equal(t, "2025-01-01", resp.EffectiveDate)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid user id", func(t *testing.T) {
		expectTx(t, sqlMock, false)

		_, err := svc.Create(ctx, payprofile.CreatePayProfileRequest{
			UserID:         "not-a-uuid",
			EmploymentType: "HOURLY",
			HourlyRate:     12500,
			EffectiveDate:  "2025-01-01",
		})

		assert.ErrorIs(t, err, payprofileerrors.ErrInvalidUserID)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("hourly profile without hourly rate", func(t *testing.T) {
		expectTx(t, sqlMock, false)

		_, err := svc.Create(ctx, payprofile.CreatePayProfileRequest{
			UserID:         userID.String(),
			EmploymentType: "HOURLY",
			EffectiveDate:  "2025-01-01",
		})

		assert.ErrorIs(t, err, payprofileerrors.ErrMissingRateForType)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative allowance rejected", func(t *testing.T) {
		expectTx(t, sqlMock, false)

		_, err := svc.Create(ctx, payprofile.CreatePayProfileRequest{
			UserID:           userID.String(),
			EmploymentType:   "DAILY_RATE",
			DailyRate:        100000,
			MonthlyAllowance: -1,
			EffectiveDate:    "2025-01-01",
		})

		assert.ErrorIs(t, err, payprofileerrors.ErrNegativeRate)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("repo error rolls back", func(t *testing.T) {
		expectTx(t, sqlMock, false)

		repo.createFn = func(ctx context.Context, p *payprofile.PayProfile) error {
			return errors.New("db error")
		}

		_, err := svc.Create(ctx, payprofile.CreatePayProfileRequest{
			UserID:         userID.String(),
			EmploymentType: "DAILY_RATE",
			DailyRate:      100000,
			EffectiveDate:  "2025-01-01",
		})

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestPayProfileService_GetHistory(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	userID := uuid.New()
	repo := &fakeProfileRepository{
		findAllByUserFn: func(ctx context.Context, uid uuid.UUID) ([]payprofile.PayProfile, error) {
			assert.Equal(t, userID, uid)
			return []payprofile.PayProfile{
				{ID: uuid.New(), UserID: uid, EmploymentType: "HOURLY", HourlyRate: 12500,
					EffectiveDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
				{ID: uuid.New(), UserID: uid, EmploymentType: "HOURLY", HourlyRate: 12000,
					EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := payprofile.NewService(db, repo)

	resp, err := svc.GetHistory(ctx, userID.String())

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(12500), resp[0].HourlyRate)

	_, err = svc.GetHistory(ctx, "bad-id")
	assert.ErrorIs(t, err, payprofileerrors.ErrInvalidUserID)
}
