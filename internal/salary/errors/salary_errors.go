package salaryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidSiteID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid site id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"year must be between 2000 and 2100 and month between 1 and 12",
		http.StatusBadRequest,
	)
	ErrNoWorkRecords = apperror.New(
		apperror.CodeNotFound,
		"no work records found for this period",
		http.StatusNotFound,
	)
	ErrNegativeHours = apperror.New(
		apperror.CodeComputation,
		"work record with negative hours",
		http.StatusUnprocessableEntity,
	)
	ErrDeductionsExceedGross = apperror.New(
		apperror.CodeComputation,
		"total deductions exceed gross pay",
		http.StatusUnprocessableEntity,
	)
	ErrWorkRecordScanExceeded = apperror.New(
		apperror.CodeComputation,
		"work record scan exceeded the page iteration cap",
		http.StatusUnprocessableEntity,
	)
)
