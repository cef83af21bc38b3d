package trend

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	trends := r.Group("/trends")
	{
		trends.GET("", handler.GetTrend)
	}
}
