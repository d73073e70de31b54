package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
	"github.com/live-learn-hub-api/internal/validation"
)

// CategoryHandler handles the category registry endpoints
type CategoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /v1/categories?active=true
func (h *CategoryHandler) List(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondInvalid(c, []apperr.FieldError{{Field: "active", Message: "active must be a boolean", Value: raw}})
			return
		}
		activeOnly = parsed
	}

	categories, err := h.services.Category.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, h.log, err, "failed to list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CreateCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	if fields := validation.ValidateCategory(&in); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	category, err := h.services.Category.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// InitializeDefaults handles POST /v1/categories/defaults
func (h *CategoryHandler) InitializeDefaults(c *gin.Context) {
	created, err := h.services.Category.InitializeDefaults(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to initialize categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "count": len(created)})
}

// SetActive handles PATCH /v1/categories/:slug with {"is_active": bool}
func (h *CategoryHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"is_active"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Active == nil {
		respondInvalid(c, []apperr.FieldError{{Field: "is_active", Message: "is_active is required"}})
		return
	}

	category, err := h.services.Category.SetActive(c.Request.Context(), c.Param("slug"), *req.Active)
	if err != nil {
		respondError(c, h.log, err, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}
