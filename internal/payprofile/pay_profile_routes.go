package payprofile

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/pay-profiles")
	{
		group.POST("", handler.Create)
		group.GET("/:user_id", handler.GetHistory)
	}
}
