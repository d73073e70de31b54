package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
	"github.com/live-learn-hub-api/internal/validation"
)

// InsightHandler handles the authenticated insight endpoints
type InsightHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(services *service.Services, log zerolog.Logger) *InsightHandler {
	return &InsightHandler{
		services: services,
		log:      log.With().Str("handler", "insight").Logger(),
	}
}

// List handles GET /v1/insights?status=...&category=...&limit=...
func (h *InsightHandler) List(c *gin.Context) {
	status := models.InsightStatus(c.Query("status"))
	if status != "" && !models.ValidStatuses[status] {
		respondInvalid(c, []apperr.FieldError{{
			Field:   "status",
			Message: "invalid status, must be one of: draft, published, archived",
			Value:   status,
		}})
		return
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	insights, err := h.services.Query.List(c.Request.Context(), models.InsightFilter{
		Status:   status,
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, h.log, err, "failed to list insights")
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights, "count": len(insights)})
}

// Create handles POST /v1/insights. The author defaults to the session user.
func (h *InsightHandler) Create(c *gin.Context) {
	var in models.CreateInsightInput
	if !bindJSON(c, &in) {
		return
	}
	if in.AuthorID == "" {
		in.AuthorID = currentUser(c).ID
	}
	if fields := validation.ValidateCreateInsight(&in); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	insight, err := h.services.Insight.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "failed to create insight")
		return
	}

	c.JSON(http.StatusCreated, insight)
}

// Get handles GET /v1/insights/:id
func (h *InsightHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "insight")
	if !ok {
		return
	}

	insight, err := h.services.Query.GetByID(c.Request.Context(), id)
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

// Update handles PATCH /v1/insights/:id
func (h *InsightHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "insight")
	if !ok {
		return
	}

	var in models.UpdateInsightInput
	if !bindJSON(c, &in) {
		return
	}
	if fields := validation.ValidateUpdateInsight(&in); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	insight, err := h.services.Insight.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, h.log, err, "failed to update insight")
		return
	}

	c.JSON(http.StatusOK, insight)
}

// Delete handles DELETE /v1/insights/:id
func (h *InsightHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "insight")
	if !ok {
		return
	}

	if err := h.services.Insight.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "failed to delete insight")
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats handles GET /v1/insights/stats
func (h *InsightHandler) Stats(c *gin.Context) {
	stats, err := h.services.Query.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /v1/insights/:id/analytics
func (h *InsightHandler) Analytics(c *gin.Context) {
	id, ok := uuidParam(c, "id", "insight")
	if !ok {
		return
	}

	counts, err := h.services.Query.EventCounts(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to count events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"insight_id": id, "events": counts})
}

// BackfillSlug handles POST /v1/insights/:id/backfill-slug
func (h *InsightHandler) BackfillSlug(c *gin.Context) {
	id, ok := uuidParam(c, "id", "insight")
	if !ok {
		return
	}

	outcome, err := h.services.Insight.BackfillSlug(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to backfill slug")
		return
	}

	c.JSON(http.StatusOK, outcome)
}
