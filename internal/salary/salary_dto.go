package salary

import (
	"github.com/google/uuid"
)

// RateFields is the rate annotation frozen into a computed salary. Values are
// basis points, copied from the resolved RateSet so later corrections to the
// rate table never change an already computed month.
type RateFields struct {
	IncomeTaxBps           int64 `json:"income_tax_bps"`
	PensionBps             int64 `json:"pension_bps"`
	HealthInsuranceBps     int64 `json:"health_insurance_bps"`
	EmploymentInsuranceBps int64 `json:"employment_insurance_bps"`
}

// MonthlySalary is the computed pay for one (user, year, month[, site])
// tuple. It is a transient value; SnapshotStore freezes it into a row.
type MonthlySalary struct {
	UserID              uuid.UUID  `json:"user_id"`
	Year                int        `json:"year"`
	Month               int        `json:"month"`
	SiteID              *uuid.UUID `json:"site_id,omitempty"`
	EmploymentType      string     `json:"employment_type"`
	WorkedHoursX100     int64      `json:"worked_hours_x100"`
	DailyRate           *int64     `json:"daily_rate,omitempty"`
	HourlyRate          *int64     `json:"hourly_rate,omitempty"`
	TotalGrossPay       int64      `json:"total_gross_pay"`
	IncomeTax           int64      `json:"income_tax"`
	Pension             int64      `json:"pension"`
	HealthInsurance     int64      `json:"health_insurance"`
	EmploymentInsurance int64      `json:"employment_insurance"`
	TotalDeductions     int64      `json:"total_deductions"`
	NetPay              int64      `json:"net_pay"`
	RateSource          string     `json:"rate_source,omitempty"`
	Rates               RateFields `json:"rates"`
}

// CalculationResult carries the salary plus any non-fatal warnings raised
// while refreshing metadata on an existing snapshot.
type CalculationResult struct {
	Salary   MonthlySalary
	Warnings []string
}

type CalculateSalaryRequest struct {
	UserID           string  `json:"user_id" binding:"required,uuid"`
	Year             int     `json:"year" binding:"required"`
	Month            int     `json:"month" binding:"required"`
	SiteID           *string `json:"site_id"`
	ForceRecalculate bool    `json:"force_recalculate"`
}
