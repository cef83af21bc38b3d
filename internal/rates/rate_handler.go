package rates

import (
	"net/http"
	"time"

	rateserrors "go-payroll/internal/rates/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	resolver Resolver
}

func NewHandler(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// GetActive resolves the rate set effective for an employment type. The rate
// table itself is maintained by an external admin flow; this endpoint is
// read-only.
func (h *Handler) GetActive(c *gin.Context) {
	var req GetActiveRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			httpErr := apperror.ToHTTP(rateserrors.ErrInvalidAsOfDate)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			return
		}
		asOf = parsed
	}

	rs, err := h.resolver.Resolve(c.Request.Context(), req.EmploymentType, asOf)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(*rs), nil)
}
