package handlers

import (
	"net/http"

	"marketplace/middleware"
	"marketplace/models"
	"marketplace/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProviderHandler struct {
	Service booking.SchedulingService
}

func NewProviderHandler(service booking.SchedulingService) *ProviderHandler {
	return &ProviderHandler{Service: service}
}

// UpdateAvailabilityHandler handles PUT /api/providers/availability.
func (h *ProviderHandler) UpdateAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)

	providerID := c.GetString(middleware.CtxProviderID)
	if providerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Provider not authenticated"})
		return
	}

	var av models.Availability
	if err := c.ShouldBindJSON(&av); err != nil {
		logger.Warn("Invalid availability payload", zap.Error(err))
		badRequest(c, err)
		return
	}

	saved, err := h.Service.UpdateAvailability(c.Request.Context(), providerID, av)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "availability": saved})
}
