package api

import (
	"net/http"

	"CultureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	eventService *service.EventService
	logger       *logrus.Logger
}

func NewSyncHandler(svc *service.EventService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		eventService: svc,
		logger:       logger,
	}
}

// RefreshEvents unconditional aggregation + enrichment cycle
// POST /api/events/refresh
func (h *SyncHandler) RefreshEvents(c *gin.Context) {
	result, err := h.eventService.RefreshNow(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("manual refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to refresh events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Events refreshed successfully",
		"count":       result.Count,
		"lastUpdated": result.LastUpdated,
	})
}
