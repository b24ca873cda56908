package api

import (
	"errors"
	"net/http"

	"CultureSync/internal/model"
	"CultureSync/internal/service"
	"CultureSync/internal/translate"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmissionHandler write side: submissions and on-demand translation
type SubmissionHandler struct {
	eventService *service.EventService
	logger       *logrus.Logger
}

func NewSubmissionHandler(svc *service.EventService, logger *logrus.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		eventService: svc,
		logger:       logger,
	}
}

// SubmitEvent verifies a user submission and publishes it when approved.
// Rejections are a normal outcome and answered with 200.
// POST /api/submit-event
func (h *SubmissionHandler) SubmitEvent(c *gin.Context) {
	var sub model.UserSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid event data"})
		return
	}

	res := h.eventService.SubmitEvent(c.Request.Context(), sub)
	message := "Event submission needs improvement before it can be published."
	if res.Approved {
		message = "Event submitted and published successfully! It's now live on the website."
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"approved":    res.Approved,
		"message":     message,
		"score":       res.Score,
		"reason":      res.Reason,
		"feedback":    res.Feedback,
		"suggestions": res.Suggestions,
		"scorer":      res.Scorer,
		"publishedId": res.PublishedID,
	})
}

type translateRequest struct {
	Events         []model.EnrichedEvent `json:"events"`
	TargetLanguage string                `json:"targetLanguage"`
}

// TranslateEvents returns the posted events with translations[targetLanguage] filled in
// POST /api/translate-events
func (h *SubmissionHandler) TranslateEvents(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Events == nil || req.TargetLanguage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request. Events array and targetLanguage required."})
		return
	}

	out, err := h.eventService.TranslateEvents(c.Request.Context(), req.Events, req.TargetLanguage)
	if err != nil {
		if errors.Is(err, translate.ErrUnsupportedLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": `Unsupported language. Use "en" or "ro".`})
			return
		}
		h.logger.WithError(err).Error("TranslateEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Translation failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}
