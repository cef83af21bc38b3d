package trenderrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var ErrInvalidMonths = apperror.New(
	apperror.CodeInvalidInput,
	"months must be between 1 and 24",
	http.StatusBadRequest,
)
