package salary

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	calc Calculator
}

func NewHandler(calc Calculator) *Handler {
	return &Handler{calc: calc}
}

// Calculate computes (or replays from an existing snapshot) one worker's
// monthly salary. The result is transient; POST /snapshots freezes it.
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	result, err := h.calc.Calculate(c.Request.Context(), req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if len(result.Warnings) > 0 {
		response.SuccessWithWarnings(c, http.StatusOK, result.Salary, result.Warnings)
		return
	}
	response.Success(c, http.StatusOK, result.Salary, nil)
}
