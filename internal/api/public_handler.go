package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
	"github.com/live-learn-hub-api/internal/validation"
)

// PublicHandler serves the public site: published insights, events and active categories
type PublicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// ListInsights handles GET /v1/public/insights?category=...&limit=...
func (h *PublicHandler) ListInsights(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	insights, err := h.services.Query.List(c.Request.Context(), models.InsightFilter{
		Status:   models.StatusPublished,
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, h.log, err, "failed to list insights")
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights, "count": len(insights)})
}

// GetInsight handles GET /v1/public/insights/:slug
func (h *PublicHandler) GetInsight(c *gin.Context) {
	insight, err := h.services.Query.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err, "failed to get insight")
		return
	}
	if insight == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "insight not found"})
		return
	}

	c.JSON(http.StatusOK, insight)
}

// RecordEvent handles POST /v1/public/events
func (h *PublicHandler) RecordEvent(c *gin.Context) {
	var req models.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	if fields := validation.ValidateEvent(&req); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	visitor := models.Visitor{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
	if err := h.services.Insight.RecordEvent(c.Request.Context(), req.InsightID, req.Event, visitor); err != nil {
		respondError(c, h.log, err, "failed to record event")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

// ListCategories handles GET /v1/public/categories
func (h *PublicHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Category.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, err, "failed to list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
