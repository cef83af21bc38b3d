package payprofile

import (
	"time"

	"github.com/google/uuid"
)

// PayProfile is the pay basis of one worker at a point in time: employment
// type plus the matching rate and a flat monthly allowance. History is
// append-only; an update inserts a new effective-dated row.
//
// Amounts are stored in integer minor units to avoid floating point errors.
type PayProfile struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_pay_profiles_user_effective"`
	EmploymentType     string    `gorm:"column:employment_type;type:varchar(20);not null"`
	DailyRate          int64     `gorm:"column:daily_rate;type:bigint;not null;default:0"`
	HourlyRate         int64     `gorm:"column:hourly_rate;type:bigint;not null;default:0"`
	StandardDailyHours int64     `gorm:"column:standard_daily_hours;type:bigint;not null;default:8"`
	MonthlyAllowance   int64     `gorm:"column:monthly_allowance;type:bigint;not null;default:0"`
	EffectiveDate      time.Time `gorm:"column:effective_date;type:date;not null;index:idx_pay_profiles_user_effective"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (PayProfile) TableName() string {
	return "pay_profiles"
}
