package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
)

// MaintenanceHandler handles the batch maintenance endpoints
type MaintenanceHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(services *service.Services, log zerolog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		services: services,
		log:      log.With().Str("handler", "maintenance").Logger(),
	}
}

// Run handles POST /v1/maintenance/<kind>.
// A repeated Idempotency-Key returns the recorded run instead of running again.
func (h *MaintenanceHandler) Run(kind models.RunKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		idempotencyKey := c.GetHeader("Idempotency-Key")

		// Check for existing run with same idempotency key
		if idempotencyKey != "" {
			existing, err := h.services.Maintenance.GetRunByIdempotencyKey(ctx, idempotencyKey)
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to check idempotency key")
			}
			if existing != nil {
				h.log.Info().Str("run_id", existing.ID).Msg("Returning existing run for idempotency key")
				c.JSON(http.StatusOK, existing)
				return
			}
		}

		run, err := h.services.Maintenance.Run(ctx, kind, idempotencyKey)
		if err != nil {
			respondError(c, h.log, err, "failed to run maintenance pass")
			return
		}

		h.log.Info().
			Str("run_id", run.ID).
			Str("kind", string(kind)).
			Int("updated", run.UpdatedCount).
			Int("failed", run.FailedCount).
			Msg("Maintenance run finished")

		c.JSON(http.StatusOK, run)
	}
}

// Seed handles POST /v1/maintenance/seed
func (h *MaintenanceHandler) Seed(c *gin.Context) {
	result, err := h.services.Seed.Seed(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to seed database")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRun handles GET /v1/maintenance/runs/:run_id
func (h *MaintenanceHandler) GetRun(c *gin.Context) {
	runID, ok := uuidParam(c, "run_id", "run")
	if !ok {
		return
	}

	run, err := h.services.Maintenance.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run status"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}
