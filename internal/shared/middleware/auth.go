package middleware

import (
	"net/http"
	"strings"

	"inventory-backend/internal/shared/response"
	"inventory-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxFullName = "fullName"
	CtxRole     = "role"
)

// AuthMiddleware verifies the Bearer token and attaches the principal to the
// request context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Fail(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "invalid user id in token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxFullName, claims.FullName)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// PrincipalID returns the authenticated user id from the context.
func PrincipalID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
