package snapshoterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrSnapshotNotFound = apperror.New(
		apperror.CodeNotFound,
		"snapshot not found",
		http.StatusNotFound,
	)
	ErrSnapshotFrozen = apperror.New(
		apperror.CodeConflict,
		"snapshot has been approved or paid and can no longer be recalculated",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"snapshot status does not allow this transition",
		http.StatusConflict,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"snapshot was modified concurrently, retry the request",
		http.StatusConflict,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of CALCULATED, APPROVED, PAID",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodRange = apperror.New(
		apperror.CodeInvalidInput,
		"from and to must be YYYY-MM periods with from not after to",
		http.StatusBadRequest,
	)
)
