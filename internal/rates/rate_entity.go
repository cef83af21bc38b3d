package rates

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmploymentTypeDailyRate = "DAILY_RATE"
	EmploymentTypeHourly    = "HOURLY"

	SourceDefault  = "DEFAULT"
	SourceOverride = "OVERRIDE"
)

// RateSet is one published row of the tax/insurance rate table. Rows are
// append-only: a correction is a new row with a later effective_from, so
// snapshots computed against the old row stay reproducible.
//
// Rates are stored as integer basis points (1 bp = 0.01%) for the same reason
// money is stored in minor units: no floating point in the ledger.
type RateSet struct {
	ID                         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmploymentType             string    `gorm:"column:employment_type;type:varchar(20);not null;index:idx_rates_type_effective"`
	Source                     string    `gorm:"column:source;type:varchar(20);not null;default:DEFAULT"`
	IncomeTaxRateBps           int64     `gorm:"column:income_tax_rate_bps;type:bigint;not null"`
	PensionRateBps             int64     `gorm:"column:pension_rate_bps;type:bigint;not null"`
	HealthInsuranceRateBps     int64     `gorm:"column:health_insurance_rate_bps;type:bigint;not null"`
	EmploymentInsuranceRateBps int64     `gorm:"column:employment_insurance_rate_bps;type:bigint;not null"`
	EffectiveFrom              time.Time `gorm:"column:effective_from;type:date;not null;index:idx_rates_type_effective"`
	CreatedAt                  time.Time `gorm:"column:created_at"`
}

func (RateSet) TableName() string {
	return "rate_sets"
}

func ValidEmploymentType(t string) bool {
	return t == EmploymentTypeDailyRate || t == EmploymentTypeHourly
}
