package snapshot

import (
	"time"

	"go-payroll/internal/salary"
	salaryerrors "go-payroll/internal/salary/errors"
	snapshoterrors "go-payroll/internal/snapshot/errors"

	"github.com/google/uuid"
)

type CreateSnapshotRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Year   int     `json:"year" binding:"required,min=2000,max=2100"`
	Month  int     `json:"month" binding:"required,min=1,max=12"`
	SiteID *string `json:"site_id" binding:"omitempty,uuid"`
}

type RecalculateSnapshotRequest struct {
	UserID string  `json:"user_id" binding:"required,uuid"`
	Year   int     `json:"year" binding:"required,min=2000,max=2100"`
	Month  int     `json:"month" binding:"required,min=1,max=12"`
	SiteID *string `json:"site_id" binding:"omitempty,uuid"`
}

type ListSnapshotsQuery struct {
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Status   string `form:"status"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

func (q ListSnapshotsQuery) normalize() (page, pageSize int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	pageSize = q.PageSize
	if pageSize < 1 {
		pageSize = defaultListPageSize
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	return page, pageSize
}

func (q ListSnapshotsQuery) toFilter() (ListFilter, error) {
	var f ListFilter

	if q.UserID != "" {
		userID, err := uuid.Parse(q.UserID)
		if err != nil {
			return ListFilter{}, salaryerrors.ErrInvalidUserID
		}
		f.UserID = &userID
	}

	if q.Status != "" {
		if !ValidStatus(q.Status) {
			return ListFilter{}, snapshoterrors.ErrInvalidStatusFilter
		}
		f.Statuses = []string{q.Status}
	}

	if q.From != "" {
		year, month, err := parsePeriod(q.From)
		if err != nil {
			return ListFilter{}, snapshoterrors.ErrInvalidPeriodRange
		}
		f.FromYear, f.FromMonth = year, month
	}
	if q.To != "" {
		year, month, err := parsePeriod(q.To)
		if err != nil {
			return ListFilter{}, snapshoterrors.ErrInvalidPeriodRange
		}
		f.ToYear, f.ToMonth = year, month
	}
	if f.FromYear > 0 && f.ToYear > 0 {
		if f.ToYear < f.FromYear || (f.ToYear == f.FromYear && f.ToMonth < f.FromMonth) {
			return ListFilter{}, snapshoterrors.ErrInvalidPeriodRange
		}
	}

	page, pageSize := q.normalize()
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize
	return f, nil
}

func parsePeriod(s string) (year, month int, err error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), int(t.Month()), nil
}

type SnapshotResponse struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	Year                int                `json:"year"`
	Month               int                `json:"month"`
	SiteID              *string            `json:"site_id,omitempty"`
	EmploymentType      string             `json:"employment_type"`
	WorkedHoursX100     int64              `json:"worked_hours_x100"`
	DailyRate           *int64             `json:"daily_rate,omitempty"`
	HourlyRate          *int64             `json:"hourly_rate,omitempty"`
	TotalGrossPay       int64              `json:"total_gross_pay"`
	IncomeTax           int64              `json:"income_tax"`
	Pension             int64              `json:"pension"`
	HealthInsurance     int64              `json:"health_insurance"`
	EmploymentInsurance int64              `json:"employment_insurance"`
	TotalDeductions     int64              `json:"total_deductions"`
	NetPay              int64              `json:"net_pay"`
	RateSource          string             `json:"rate_source,omitempty"`
	Rates               *salary.RateFields `json:"rates,omitempty"`
	Status              string             `json:"status"`
	Version             int64              `json:"version"`
	ApprovedBy          *string            `json:"approved_by,omitempty"`
	ApprovedAt          *string            `json:"approved_at,omitempty"`
	PaidAt              *string            `json:"paid_at,omitempty"`
	CreatedAt           string             `json:"created_at"`
	UpdatedAt           string             `json:"updated_at"`
}

func mapToResponse(snap Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		ID:                  snap.ID.String(),
		UserID:              snap.UserID.String(),
		Year:                snap.Year,
		Month:               snap.Month,
		EmploymentType:      snap.EmploymentType,
		WorkedHoursX100:     snap.WorkedHoursX100,
		DailyRate:           snap.DailyRate,
		HourlyRate:          snap.HourlyRate,
		TotalGrossPay:       snap.TotalGrossPay,
		IncomeTax:           snap.IncomeTax,
		Pension:             snap.Pension,
		HealthInsurance:     snap.HealthInsurance,
		EmploymentInsurance: snap.EmploymentInsurance,
		TotalDeductions:     snap.TotalDeductions,
		NetPay:              snap.NetPay,
		RateSource:          snap.RateSource,
		Status:              snap.Status,
		Version:             snap.Version,
		CreatedAt:           snap.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           snap.UpdatedAt.Format(time.RFC3339),
	}

	if snap.SiteID != nil {
		v := snap.SiteID.String()
		resp.SiteID = &v
	}
	if snap.RateSource != "" {
		resp.Rates = &salary.RateFields{
			IncomeTaxBps:           snap.IncomeTaxRateBps,
			PensionBps:             snap.PensionRateBps,
			HealthInsuranceBps:     snap.HealthInsuranceRateBps,
			EmploymentInsuranceBps: snap.EmploymentInsuranceRateBps,
		}
	}
	if snap.ApprovedBy != nil {
		v := snap.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if snap.ApprovedAt != nil {
		v := snap.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if snap.PaidAt != nil {
		v := snap.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapToListResponse(snaps []Snapshot) []SnapshotResponse {
	resp := make([]SnapshotResponse, len(snaps))
	for i, snap := range snaps {
		resp[i] = mapToResponse(snap)
	}
	return resp
}
