package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"CultureSync/internal/model"
	"CultureSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler read side of the event cache
type EventHandler struct {
	eventService *service.EventService
	logger       *logrus.Logger
}

func NewEventHandler(svc *service.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		eventService: svc,
		logger:       logger,
	}
}

// ListEvents event list, refreshed first when stale
// GET /api/events?category=music&enhanced=false
func (h *EventHandler) ListEvents(c *gin.Context) {
	enhanced := true
	if v := c.Query("enhanced"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "enhanced must be true or false"})
			return
		}
		enhanced = b
	}

	list, err := h.eventService.GetEvents(c.Request.Context(), service.EventFilter{Category: c.Query("category")})
	if err != nil {
		h.logger.WithError(err).Error("ListEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch events"})
		return
	}

	if !enhanced {
		raw := make([]model.RawView, 0, len(list.Events))
		for _, e := range list.Events {
			raw = append(raw, e.Raw())
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"events":      raw,
			"count":       list.Count,
			"lastUpdated": list.LastUpdated,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"events":      list.Events,
		"count":       list.Count,
		"lastUpdated": list.LastUpdated,
	})
}

// GetEvent single event
// GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
			return
		}
		h.logger.WithError(err).Error("GetEvent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

// UserEvents published submissions of one organizer
// GET /api/user-events?email=someone@example.com
func (h *EventHandler) UserEvents(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email parameter required"})
		return
	}
	events := h.eventService.UserEvents(email)
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events, "count": len(events)})
}

// Health GET /api/health
func (h *EventHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.eventService.Health())
}
