package payprofile

import (
	"context"
	"database/sql"
	"time"

	payprofileerrors "go-payroll/internal/payprofile/errors"
	"go-payroll/internal/rates"

	"github.com/google/uuid"
)

//go:generate mockgen -source=pay_profile_service.go -destination=mock/pay_profile_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePayProfileRequest) (PayProfileResponse, error)
	GetHistory(ctx context.Context, userID string) ([]PayProfileResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	req CreatePayProfileRequest,
) (PayProfileResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return PayProfileResponse{}, payprofileerrors.ErrInvalidUserID
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return PayProfileResponse{}, payprofileerrors.ErrInvalidEffectiveDate
	}

	if req.DailyRate < 0 || req.HourlyRate < 0 || req.MonthlyAllowance < 0 || req.StandardDailyHours < 0 {
		return PayProfileResponse{}, payprofileerrors.ErrNegativeRate
	}
	if req.EmploymentType == rates.EmploymentTypeDailyRate && req.DailyRate == 0 {
		return PayProfileResponse{}, payprofileerrors.ErrMissingRateForType
	}
	if req.EmploymentType == rates.EmploymentTypeHourly && req.HourlyRate == 0 {
		return PayProfileResponse{}, payprofileerrors.ErrMissingRateForType
	}

	stdHours := req.StandardDailyHours
	if stdHours == 0 {
		stdHours = 8
	}

	profile := &PayProfile{
		ID:                 uuid.New(),
		UserID:             userID,
		EmploymentType:     req.EmploymentType,
		DailyRate:          req.DailyRate,
		HourlyRate:         req.HourlyRate,
		StandardDailyHours: stdHours,
		MonthlyAllowance:   req.MonthlyAllowance,
		EffectiveDate:      effectiveDate,
	}

	if err := qtx.Create(ctx, profile); err != nil {
		return PayProfileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayProfileResponse{}, err
	}

	return mapToResponse(*profile), nil
}

func (s *service) GetHistory(
	ctx context.Context,
	userID string,
) ([]PayProfileResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, payprofileerrors.ErrInvalidUserID
	}

	profiles, err := s.repo.FindAllByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(profiles), nil
}
