package salary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/payprofile"
	payprofileerrors "go-payroll/internal/payprofile/errors"
	"go-payroll/internal/rates"
	salaryerrors "go-payroll/internal/salary/errors"
	"go-payroll/internal/workrecord"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxQueryPages caps the paginated work record scan; one worker-month can
// never legitimately need this many pages.
const maxQueryPages = 1000

// SnapshotSource is the calculator's read view of the snapshot store. A nil
// salary with a nil error means no snapshot exists for the key.
type SnapshotSource interface {
	FindSalary(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlySalary, error)
	AnnotateRates(ctx context.Context, userID uuid.UUID, year, month int, source string, rf RateFields) error
}

//go:generate mockgen -source=calculator.go -destination=mock/calculator_mock.go -package=mock
type Calculator interface {
	Calculate(ctx context.Context, req CalculateSalaryRequest) (CalculationResult, error)
}

type calculator struct {
	records   workrecord.Repository
	profiles  payprofile.Repository
	resolver  rates.Resolver
	snapshots SnapshotSource
	logger    *zap.Logger
}

func NewCalculator(
	records workrecord.Repository,
	profiles payprofile.Repository,
	resolver rates.Resolver,
	snapshots SnapshotSource,
	logger *zap.Logger,
) Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &calculator{
		records:   records,
		profiles:  profiles,
		resolver:  resolver,
		snapshots: snapshots,
		logger:    logger.Named("salary.calculator"),
	}
}

func (c *calculator) Calculate(ctx context.Context, req CalculateSalaryRequest) (CalculationResult, error) {
	userID, siteID, err := validateCalculateRequest(req)
	if err != nil {
		return CalculationResult{}, err
	}

	if !req.ForceRecalculate {
		existing, err := c.snapshots.FindSalary(ctx, userID, req.Year, req.Month)
		if err != nil {
			return CalculationResult{}, err
		}
		if existing != nil {
			return c.reuseSnapshot(ctx, userID, req.Year, req.Month, *existing)
		}
	}

	fresh, err := c.compute(ctx, userID, siteID, req.Year, req.Month)
	if err != nil {
		return CalculationResult{}, err
	}
	return CalculationResult{Salary: fresh}, nil
}

// reuseSnapshot returns the frozen payload unchanged. When the stored row
// predates rate annotations, the annotation is backfilled best-effort: a
// failure here must never discard already-correct monetary totals, so it is
// logged and reported as a warning instead of an error.
func (c *calculator) reuseSnapshot(
	ctx context.Context,
	userID uuid.UUID,
	year, month int,
	existing MonthlySalary,
) (CalculationResult, error) {
	if existing.RateSource != "" {
		return CalculationResult{Salary: existing}, nil
	}

	asOf := periodEnd(year, month)
	rs, err := c.resolver.Resolve(ctx, existing.EmploymentType, asOf)
	if err != nil {
		c.logger.Warn("rate metadata backfill failed",
			zap.String("user_id", userID.String()),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		return CalculationResult{
			Salary:   existing,
			Warnings: []string{fmt.Sprintf("rate metadata could not be refreshed: %v", err)},
		}, nil
	}

	rf := RateFields{
		IncomeTaxBps:           rs.IncomeTaxRateBps,
		PensionBps:             rs.PensionRateBps,
		HealthInsuranceBps:     rs.HealthInsuranceRateBps,
		EmploymentInsuranceBps: rs.EmploymentInsuranceRateBps,
	}

	var warnings []string
	if err := c.snapshots.AnnotateRates(ctx, userID, year, month, rs.Source, rf); err != nil {
		c.logger.Warn("rate annotation write failed",
			zap.String("user_id", userID.String()),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err),
		)
		warnings = append(warnings, fmt.Sprintf("rate annotation could not be stored: %v", err))
	}

	existing.RateSource = rs.Source
	existing.Rates = rf
	return CalculationResult{Salary: existing, Warnings: warnings}, nil
}

func (c *calculator) compute(
	ctx context.Context,
	userID uuid.UUID,
	siteID *uuid.UUID,
	year, month int,
) (MonthlySalary, error) {
	from, to := periodBounds(year, month)

	profile, err := c.profiles.FindEffective(ctx, userID, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthlySalary{}, payprofileerrors.ErrPayProfileNotFound
		}
		return MonthlySalary{}, err
	}

	var (
		totalHoursX100 int64
		grossPay       int64
		recordCount    int
		cursor         *workrecord.Cursor
	)

	for page := 0; ; page++ {
		if page >= maxQueryPages {
			return MonthlySalary{}, salaryerrors.ErrWorkRecordScanExceeded
		}

		records, next, err := c.records.Query(ctx, workrecord.QueryFilter{
			UserID:   userID,
			SiteID:   siteID,
			DateFrom: from,
			DateTo:   to,
			Cursor:   cursor,
		})
		if err != nil {
			return MonthlySalary{}, err
		}

		for _, rec := range records {
			if rec.HoursX100 < 0 {
				return MonthlySalary{}, salaryerrors.ErrNegativeHours
			}
			totalHoursX100 += rec.HoursX100
			grossPay += recordPay(profile, rec.HoursX100)
			recordCount++
		}

		if next == nil {
			break
		}
		cursor = next
	}

	if recordCount == 0 {
		return MonthlySalary{}, salaryerrors.ErrNoWorkRecords
	}

	grossPay += profile.MonthlyAllowance

	rs, err := c.resolver.Resolve(ctx, profile.EmploymentType, to)
	if err != nil {
		return MonthlySalary{}, err
	}

	incomeTax := roundHalfUpBps(grossPay, rs.IncomeTaxRateBps)
	pension := roundHalfUpBps(grossPay, rs.PensionRateBps)
	healthInsurance := roundHalfUpBps(grossPay, rs.HealthInsuranceRateBps)
	employmentInsurance := roundHalfUpBps(grossPay, rs.EmploymentInsuranceRateBps)

	totalDeductions := incomeTax + pension + healthInsurance + employmentInsurance
	if totalDeductions > grossPay {
		return MonthlySalary{}, salaryerrors.ErrDeductionsExceedGross
	}

	result := MonthlySalary{
		UserID:              userID,
		Year:                year,
		Month:               month,
		SiteID:              siteID,
		EmploymentType:      profile.EmploymentType,
		WorkedHoursX100:     totalHoursX100,
		TotalGrossPay:       grossPay,
		IncomeTax:           incomeTax,
		Pension:             pension,
		HealthInsurance:     healthInsurance,
		EmploymentInsurance: employmentInsurance,
		TotalDeductions:     totalDeductions,
		NetPay:              grossPay - totalDeductions,
		RateSource:          rs.Source,
		Rates: RateFields{
			IncomeTaxBps:           rs.IncomeTaxRateBps,
			PensionBps:             rs.PensionRateBps,
			HealthInsuranceBps:     rs.HealthInsuranceRateBps,
			EmploymentInsuranceBps: rs.EmploymentInsuranceRateBps,
		},
	}

	switch profile.EmploymentType {
	case rates.EmploymentTypeDailyRate:
		v := profile.DailyRate
		result.DailyRate = &v
	case rates.EmploymentTypeHourly:
		v := profile.HourlyRate
		result.HourlyRate = &v
	}

	return result, nil
}

// recordPay prices one work record. Daily-rate workers are paid pro-rated
// days (hours / standard daily hours * daily rate); hourly workers are paid
// hours * hourly rate. Hours are fixed-point x100.
func recordPay(profile *payprofile.PayProfile, hoursX100 int64) int64 {
	switch profile.EmploymentType {
	case rates.EmploymentTypeDailyRate:
		stdHours := profile.StandardDailyHours
		if stdHours <= 0 {
			stdHours = 8
		}
		return hoursX100 * profile.DailyRate / (stdHours * 100)
	default:
		return hoursX100 * profile.HourlyRate / 100
	}
}

func validateCalculateRequest(req CalculateSalaryRequest) (uuid.UUID, *uuid.UUID, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return uuid.Nil, nil, salaryerrors.ErrInvalidUserID
	}

	if req.Year < 2000 || req.Year > 2100 || req.Month < 1 || req.Month > 12 {
		return uuid.Nil, nil, salaryerrors.ErrInvalidPeriod
	}

	var siteID *uuid.UUID
	if req.SiteID != nil && *req.SiteID != "" {
		parsed, err := uuid.Parse(*req.SiteID)
		if err != nil {
			return uuid.Nil, nil, salaryerrors.ErrInvalidSiteID
		}
		siteID = &parsed
	}

	return userID, siteID, nil
}

func periodBounds(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

func periodEnd(year, month int) time.Time {
	_, to := periodBounds(year, month)
	return to
}
