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

// UserHandler handles user administration
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// Create handles POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var in models.CreateUserInput
	if !bindJSON(c, &in) {
		return
	}
	if fields := validation.ValidateCreateUser(&in); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	user, err := h.services.User.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetByEmail handles GET /v1/users?email=...
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondInvalid(c, []apperr.FieldError{{Field: "email", Message: "email is required"}})
		return
	}

	user, err := h.services.User.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.log, err, "failed to get user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Get handles GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "failed to get user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update handles PATCH /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}

	var in models.UpdateUserInput
	if !bindJSON(c, &in) {
		return
	}
	if fields := validation.ValidateUpdateUser(&in); len(fields) > 0 {
		respondInvalid(c, fields)
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, h.log, err, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}
