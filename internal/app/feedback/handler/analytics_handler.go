package handler

import (
	"net/http"

	"feedback-insights/internal/app/feedback/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsServiceInterface
}

func NewAnalyticsHandler(analyticsService service.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetAnalytics возвращает аналитический снимок по всему корпусу отзывов
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.analyticsService.GetSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
