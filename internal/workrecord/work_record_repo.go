package workrecord

import (
	"context"
	"time"

	"go-payroll/internal/site"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPageSize bounds one page of work records; a month of data for one
// worker fits comfortably, but a site-wide query must never materialize its
// whole history in memory.
const (
	DefaultPageSize = 200
	MaxPageSize     = 200
)

// Cursor is an opaque keyset position: records strictly after
// (work_date, id) in ascending order.
type Cursor struct {
	AfterDate time.Time
	AfterID   uuid.UUID
}

type QueryFilter struct {
	UserID   uuid.UUID
	SiteID   *uuid.UUID
	DateFrom time.Time
	DateTo   time.Time
	Cursor   *Cursor
	PageSize int
}

//go:generate mockgen -source=work_record_repo.go -destination=mock/work_record_repo_mock.go -package=mock
type Repository interface {
	// Query returns one page of records ordered by (work_date, id) and the
	// cursor for the next page, or nil when the page was not full.
	Query(ctx context.Context, f QueryFilter) ([]WorkRecord, *Cursor, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Query(ctx context.Context, f QueryFilter) ([]WorkRecord, *Cursor, error) {
	pageSize := f.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	q := r.db.WithContext(ctx).
		Scopes(site.Scope(f.SiteID)).
		Where("user_id = ?", f.UserID).
		Where("work_date >= ?", f.DateFrom.Format("2006-01-02")).
		Where("work_date <= ?", f.DateTo.Format("2006-01-02"))

	if f.Cursor != nil {
		q = q.Where(
			"(work_date, id) > (?, ?)",
			f.Cursor.AfterDate.Format("2006-01-02"), f.Cursor.AfterID,
		)
	}

	var rows []WorkRecord
	err := q.Order("work_date ASC, id ASC").
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) == pageSize {
		last := rows[len(rows)-1]
		next = &Cursor{AfterDate: last.WorkDate, AfterID: last.ID}
	}

	return rows, next, nil
}
