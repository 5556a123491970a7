package middleware

import (
	"user_service/internal/traceid"

	"github.com/gin-gonic/gin"
)

// TraceID assigns every request a fresh correlation id, carried on the
// request context rather than any process-wide state.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := traceid.Into(c.Request.Context(), traceid.New())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
