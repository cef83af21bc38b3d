package salary

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/salaries")
	{
		group.POST("/calculate", handler.Calculate)
	}
}
