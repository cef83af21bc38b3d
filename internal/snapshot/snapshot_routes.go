package snapshot

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	snapshots := r.Group("/snapshots")
	{
		snapshots.GET("", handler.List)
		if redisClient != nil {
			snapshots.POST("", middleware.Idempotency(redisClient), handler.Create)
		} else {
			snapshots.POST("", handler.Create)
		}
		snapshots.POST("/recalculate", handler.Recalculate)
	}
}
