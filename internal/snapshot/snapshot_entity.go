package snapshot

import (
	"time"

	"go-payroll/internal/salary"

	"github.com/google/uuid"
)

const (
	StatusCalculated = "CALCULATED"
	StatusApproved   = "APPROVED"
	StatusPaid       = "PAID"
)

func ValidStatus(s string) bool {
	return s == StatusCalculated || s == StatusApproved || s == StatusPaid
}

// Snapshot is the frozen monthly salary for one (user, year, month) key. The
// unique index is the authority on uniqueness; the in-process key lock only
// reduces duplicate computation inside one instance.
//
// Monetary columns are immutable once status leaves CALCULATED. Version is
// bumped on every state or payload change and guards all updates.
type Snapshot struct {
	ID                         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID                     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_snapshots_user_period"`
	Year                       int        `gorm:"column:year;not null;uniqueIndex:idx_snapshots_user_period"`
	Month                      int        `gorm:"column:month;not null;uniqueIndex:idx_snapshots_user_period"`
	SiteID                     *uuid.UUID `gorm:"column:site_id;type:uuid"`
	EmploymentType             string     `gorm:"column:employment_type;type:varchar(20);not null"`
	WorkedHoursX100            int64      `gorm:"column:worked_hours_x100;type:bigint;not null"`
	DailyRate                  *int64     `gorm:"column:daily_rate;type:bigint"`
	HourlyRate                 *int64     `gorm:"column:hourly_rate;type:bigint"`
	TotalGrossPay              int64      `gorm:"column:total_gross_pay;type:bigint;not null"`
	IncomeTax                  int64      `gorm:"column:income_tax;type:bigint;not null"`
	Pension                    int64      `gorm:"column:pension;type:bigint;not null"`
	HealthInsurance            int64      `gorm:"column:health_insurance;type:bigint;not null"`
	EmploymentInsurance        int64      `gorm:"column:employment_insurance;type:bigint;not null"`
	TotalDeductions            int64      `gorm:"column:total_deductions;type:bigint;not null"`
	NetPay                     int64      `gorm:"column:net_pay;type:bigint;not null"`
	RateSource                 string     `gorm:"column:rate_source;type:varchar(20)"`
	IncomeTaxRateBps           int64      `gorm:"column:income_tax_rate_bps;type:bigint"`
	PensionRateBps             int64      `gorm:"column:pension_rate_bps;type:bigint"`
	HealthInsuranceRateBps     int64      `gorm:"column:health_insurance_rate_bps;type:bigint"`
	EmploymentInsuranceRateBps int64      `gorm:"column:employment_insurance_rate_bps;type:bigint"`
	Status                     string     `gorm:"column:status;type:varchar(20);not null;default:CALCULATED"`
	Version                    int64      `gorm:"column:version;type:bigint;not null;default:1"`
	ApprovedBy                 *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt                 *time.Time `gorm:"column:approved_at"`
	PaidAt                     *time.Time `gorm:"column:paid_at"`
	CreatedAt                  time.Time  `gorm:"column:created_at"`
	UpdatedAt                  time.Time  `gorm:"column:updated_at"`
}

func (Snapshot) TableName() string {
	return "salary_snapshots"
}

func fromSalary(s salary.MonthlySalary) *Snapshot {
	return &Snapshot{
		ID:                         uuid.New(),
		UserID:                     s.UserID,
		Year:                       s.Year,
		Month:                      s.Month,
		SiteID:                     s.SiteID,
		EmploymentType:             s.EmploymentType,
		WorkedHoursX100:            s.WorkedHoursX100,
		DailyRate:                  s.DailyRate,
		HourlyRate:                 s.HourlyRate,
		TotalGrossPay:              s.TotalGrossPay,
		IncomeTax:                  s.IncomeTax,
		Pension:                    s.Pension,
		HealthInsurance:            s.HealthInsurance,
		EmploymentInsurance:        s.EmploymentInsurance,
		TotalDeductions:            s.TotalDeductions,
		NetPay:                     s.NetPay,
		RateSource:                 s.RateSource,
		IncomeTaxRateBps:           s.Rates.IncomeTaxBps,
		PensionRateBps:             s.Rates.PensionBps,
		HealthInsuranceRateBps:     s.Rates.HealthInsuranceBps,
		EmploymentInsuranceRateBps: s.Rates.EmploymentInsuranceBps,
		Status:                     StatusCalculated,
		Version:                    1,
	}
}

func (s *Snapshot) toSalary() salary.MonthlySalary {
	return salary.MonthlySalary{
		UserID:              s.UserID,
		Year:                s.Year,
		Month:               s.Month,
		SiteID:              s.SiteID,
		EmploymentType:      s.EmploymentType,
		WorkedHoursX100:     s.WorkedHoursX100,
		DailyRate:           s.DailyRate,
		HourlyRate:          s.HourlyRate,
		TotalGrossPay:       s.TotalGrossPay,
		IncomeTax:           s.IncomeTax,
		Pension:             s.Pension,
		HealthInsurance:     s.HealthInsurance,
		EmploymentInsurance: s.EmploymentInsurance,
		TotalDeductions:     s.TotalDeductions,
		NetPay:              s.NetPay,
		RateSource:          s.RateSource,
		Rates: salary.RateFields{
			IncomeTaxBps:           s.IncomeTaxRateBps,
			PensionBps:             s.PensionRateBps,
			HealthInsuranceBps:     s.HealthInsuranceRateBps,
			EmploymentInsuranceBps: s.EmploymentInsuranceRateBps,
		},
	}
}
