package payprofileerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPayProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"no pay profile is effective for this worker",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"pay rates and allowances cannot be negative",
		http.StatusBadRequest,
	)
	ErrMissingRateForType = apperror.New(
		apperror.CodeInvalidInput,
		"daily_rate is required for DAILY_RATE and hourly_rate for HOURLY",
		http.StatusBadRequest,
	)
)
