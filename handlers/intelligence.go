package handlers

import (
	"net/http"

	"marketplace/middleware"
	"marketplace/models"
	ai "marketplace/services/intelligence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AIHandler struct {
	Service ai.AIService
}

func NewAIHandler(service ai.AIService) *AIHandler {
	return &AIHandler{Service: service}
}

// ChatHandler handles POST /api/ai/chat.
func (h *AIHandler) ChatHandler(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.Service.ProcessUserInput(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		getLogger(c).Error("assistant failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The assistant is unavailable right now"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
