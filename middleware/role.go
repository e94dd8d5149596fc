package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "This action requires a " + role + " account"})
			return
		}
		c.Next()
	}
}
