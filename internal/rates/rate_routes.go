package rates

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rates")
	{
		group.GET("/active", handler.GetActive)
	}
}
