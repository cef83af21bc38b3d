package snapshot

import (
	"context"
	"database/sql"

	"go-payroll/internal/salary"
	"go-payroll/internal/site"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows a snapshot listing. A zero FromYear or ToYear leaves
// that end of the period open; Statuses nil means any status.
type ListFilter struct {
	UserID    *uuid.UUID
	SiteID    *uuid.UUID
	Statuses  []string
	FromYear  int
	FromMonth int
	ToYear    int
	ToMonth   int
	Limit     int
	Offset    int
}

//go:generate mockgen -source=snapshot_repo.go -destination=mock/snapshot_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, snap *Snapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	FindByKey(ctx context.Context, userID uuid.UUID, year, month int) (*Snapshot, error)
	List(ctx context.Context, f ListFilter) ([]Snapshot, error)
	Count(ctx context.Context, f ListFilter) (int64, error)
	// UpdateSalaryCAS rewrites the monetary columns of a CALCULATED snapshot
	// and bumps its version. Returns the number of rows updated; zero means
	// the snapshot was approved, paid, or rewritten since it was read.
	UpdateSalaryCAS(ctx context.Context, id uuid.UUID, fresh *Snapshot, expectedVersion int64) (int64, error)
	// UpdateStatusCAS moves status from -> to with a version check, merging
	// any extra column updates. Returns the number of rows updated.
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to string, expectedVersion int64, extra map[string]interface{}) (int64, error)
	AnnotateRates(ctx context.Context, userID uuid.UUID, year, month int, source string, rf salary.RateFields) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the session onto tx, so every operation on the returned
// repository commits or rolls back with the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, snap *Snapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var snap Snapshot
	err := r.db.WithContext(ctx).First(&snap, "id = ?", id).Error
	return &snap, err
}

func (r *repository) FindByKey(ctx context.Context, userID uuid.UUID, year, month int) (*Snapshot, error) {
	var snap Snapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Where("month = ?", month).
		First(&snap).Error
	return &snap, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Snapshot, error) {
	var snaps []Snapshot
	err := r.listQuery(ctx, f).
		Order("year DESC, month DESC, user_id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&snaps).Error
	return snaps, err
}

func (r *repository) Count(ctx context.Context, f ListFilter) (int64, error) {
	var count int64
	err := r.listQuery(ctx, f).Count(&count).Error
	return count, err
}

func (r *repository) listQuery(ctx context.Context, f ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&Snapshot{}).
		Scopes(site.Scope(f.SiteID))

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.FromYear > 0 {
		q = q.Where("(year > ? OR (year = ? AND month >= ?))", f.FromYear, f.FromYear, f.FromMonth)
	}
	if f.ToYear > 0 {
		q = q.Where("(year < ? OR (year = ? AND month <= ?))", f.ToYear, f.ToYear, f.ToMonth)
	}
	return q
}

func (r *repository) UpdateSalaryCAS(
	ctx context.Context,
	id uuid.UUID,
	fresh *Snapshot,
	expectedVersion int64,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Snapshot{}).
		Where("id = ? AND status = ? AND version = ?", id, StatusCalculated, expectedVersion).
		Updates(map[string]interface{}{
			"site_id":                       fresh.SiteID,
			"employment_type":               fresh.EmploymentType,
			"worked_hours_x100":             fresh.WorkedHoursX100,
			"daily_rate":                    fresh.DailyRate,
			"hourly_rate":                   fresh.HourlyRate,
			"total_gross_pay":               fresh.TotalGrossPay,
			"income_tax":                    fresh.IncomeTax,
			"pension":                       fresh.Pension,
			"health_insurance":              fresh.HealthInsurance,
			"employment_insurance":          fresh.EmploymentInsurance,
			"total_deductions":              fresh.TotalDeductions,
			"net_pay":                       fresh.NetPay,
			"rate_source":                   fresh.RateSource,
			"income_tax_rate_bps":           fresh.IncomeTaxRateBps,
			"pension_rate_bps":              fresh.PensionRateBps,
			"health_insurance_rate_bps":     fresh.HealthInsuranceRateBps,
			"employment_insurance_rate_bps": fresh.EmploymentInsuranceRateBps,
			"version":                       gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateStatusCAS(
	ctx context.Context,
	id uuid.UUID,
	from, to string,
	expectedVersion int64,
	extra map[string]interface{},
) (int64, error) {
	updates := map[string]interface{}{
		"status":  to,
		"version": gorm.Expr("version + 1"),
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&Snapshot{}).
		Where("id = ? AND status = ? AND version = ?", id, from, expectedVersion).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) AnnotateRates(
	ctx context.Context,
	userID uuid.UUID,
	year, month int,
	source string,
	rf salary.RateFields,
) error {
	// Only rows that predate rate annotations are touched; an annotated row
	// keeps whatever was frozen at computation time.
	return r.db.WithContext(ctx).
		Model(&Snapshot{}).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Where("rate_source IS NULL OR rate_source = ''").
		Updates(map[string]interface{}{
			"rate_source":                   source,
			"income_tax_rate_bps":           rf.IncomeTaxBps,
			"pension_rate_bps":              rf.PensionBps,
			"health_insurance_rate_bps":     rf.HealthInsuranceBps,
			"employment_insurance_rate_bps": rf.EmploymentInsuranceBps,
		}).Error
}
