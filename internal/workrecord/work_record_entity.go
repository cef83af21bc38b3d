package workrecord

import (
	"time"

	"github.com/google/uuid"
)

// WorkRecord is one day of recorded work for one worker, produced by the
// external timekeeping subsystem. Read-only to this engine.
//
// Hours are fixed-point with two decimals (HoursX100 = 825 means 8.25h), the
// same smallest-unit-integer convention used for money.
type WorkRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_work_records_user_date"`
	SiteID    *uuid.UUID `gorm:"column:site_id;type:uuid;index"`
	WorkDate  time.Time  `gorm:"column:work_date;type:date;not null;index:idx_work_records_user_date"`
	HoursX100 int64      `gorm:"column:hours_x100;type:bigint;not null"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (WorkRecord) TableName() string {
	return "work_records"
}
