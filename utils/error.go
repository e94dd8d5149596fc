package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// internalDetails replaces the details of server errors; store and gateway
// errors are logged, not returned.
const internalDetails = "An unexpected error occurred. Please try again later."

// ErrorHandler recovers panics from the booking and chat handlers and
// answers with the standard error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Stack("stack"))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: internalDetails,
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs and sends an error response. Client errors carry their
// details; server errors only log them.
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger().With(zap.Int("status", status), zap.String("path", c.FullPath()))
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.String("details", details))
		details = internalDetails
	} else {
		logger.Warn(message, zap.String("details", details))
	}
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
