package snapshot

import (
	"context"
	"net/http"

	"go-payroll/internal/salary"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
	calc    salary.Calculator
}

func NewHandler(service Service, calc salary.Calculator) *Handler {
	return &Handler{service: service, calc: calc}
}

// Create freezes the month's salary into a snapshot. If a snapshot already
// exists for the key it is returned unchanged with 200; a new one is 201.
func (h *Handler) Create(c *gin.Context) {
	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	key, compute, err := h.computePlan(req.UserID, req.Year, req.Month, req.SiteID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, created, err := h.service.GetOrCreate(c.Request.Context(), key, compute)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, resp, nil)
}

// Recalculate recomputes a CALCULATED snapshot from current inputs. Approved
// and paid snapshots reject with 409.
func (h *Handler) Recalculate(c *gin.Context) {
	var req RecalculateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	key, compute, err := h.computePlan(req.UserID, req.Year, req.Month, req.SiteID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.Recalculate(c.Request.Context(), key, compute)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	var q ListSnapshotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	snaps, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	page, pageSize := q.normalize()
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, snaps, &meta)
}

// computePlan builds the snapshot key plus the closure that prices the month
// fresh. ForceRecalculate skips the store lookup the service already did.
func (h *Handler) computePlan(userID string, year, month int, siteID *string) (Key, ComputeFn, error) {
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return Key{}, nil, apperror.InvalidField("user_id")
	}
	key := Key{UserID: parsed, Year: year, Month: month}

	compute := func(ctx context.Context) (salary.MonthlySalary, error) {
		result, err := h.calc.Calculate(ctx, salary.CalculateSalaryRequest{
			UserID:           userID,
			Year:             year,
			Month:            month,
			SiteID:           siteID,
			ForceRecalculate: true,
		})
		if err != nil {
			return salary.MonthlySalary{}, err
		}
		return result.Salary, nil
	}
	return key, compute, nil
}
