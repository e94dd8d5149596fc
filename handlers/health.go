package handlers

import (
	"net/http"

	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency health snapshot.
func HealthHandler(c *gin.Context) {
	h := utils.GetHealthStatus()
	status := http.StatusOK
	if !h.CheckedAt.IsZero() && !(h.Mongo && h.Redis) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "dependencies": h})
}
