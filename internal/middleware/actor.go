package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

// Actor propagates the caller identity from the X-Actor-ID header. Upstream
// authentication is expected to have validated it; here it only travels into
// handler context for approval attribution and idempotency scoping.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader("X-Actor-ID")
		if actorID != "" {
			c.Set("actor_id", actorID)
			ctx := contextutil.WithActorID(c.Request.Context(), actorID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
