package rateserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRateNotFound = apperror.New(
		apperror.CodeNotFound,
		"no rate set is effective for this employment type and date",
		http.StatusNotFound,
	)
	ErrInvalidEmploymentType = apperror.New(
		apperror.CodeInvalidInput,
		"employment type must be DAILY_RATE or HOURLY",
		http.StatusBadRequest,
	)
	ErrInvalidAsOfDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid as-of date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
