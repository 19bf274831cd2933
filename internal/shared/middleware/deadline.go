package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Deadline bounds every request with the configured budget. Handlers see the
// expiry through ctx; repositories map the resulting context error to a
// transient failure.
func Deadline(budget time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
