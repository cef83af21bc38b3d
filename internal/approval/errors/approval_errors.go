package approvalerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
		http.StatusBadRequest,
	)
	ErrEmptyBulkRequest = apperror.New(
		apperror.CodeInvalidInput,
		"bulk approval requires at least one entry",
		http.StatusBadRequest,
	)
	ErrBulkTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"bulk approval accepts at most 100 entries",
		http.StatusBadRequest,
	)
)
