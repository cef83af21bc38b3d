package approval

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
		snapshots.POST("/approve", handler.Approve)
		if redisClient != nil {
			snapshots.POST("/bulk-approve", middleware.Idempotency(redisClient), handler.BulkApprove)
		} else {
			snapshots.POST("/bulk-approve", handler.BulkApprove)
		}
	}
}
