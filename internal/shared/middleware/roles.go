package middleware

import (
	"net/http"

	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on the principal's role, set by AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			response.Fail(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
