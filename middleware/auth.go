package middleware

import (
	"net/http"
	"strings"

	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxUserID     = "userID"
	CtxProviderID = "providerID"
	CtxRole       = "role"
)

// JWTAuthMiddleware validates the bearer token and stores the subject under
// userID or providerID depending on its role claim.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		subject, role, err := utils.ExtractSubject(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		switch role {
		case utils.RoleProvider:
			c.Set(CtxProviderID, subject)
		case utils.RoleUser, "":
			role = utils.RoleUser
			c.Set(CtxUserID, subject)
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unsupported token role"})
			return
		}
		c.Set(CtxRole, role)
		c.Next()
	}
}
