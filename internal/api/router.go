package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	insightHandler := NewInsightHandler(services, log)
	publicHandler := NewPublicHandler(services, log)
	categoryHandler := NewCategoryHandler(services, log)
	userHandler := NewUserHandler(services, log)
	maintenanceHandler := NewMaintenanceHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		// Public site, no session required
		public := v1.Group("/public")
		{
			public.GET("/insights", publicHandler.ListInsights)
			public.GET("/insights/:slug", publicHandler.GetInsight)
			public.POST("/events", publicHandler.RecordEvent)
			public.GET("/categories", publicHandler.ListCategories)
		}

		authed := v1.Group("")
		authed.Use(authMiddleware(services.User, log))

		insights := authed.Group("/insights")
		{
			insights.GET("", insightHandler.List)
			insights.POST("", requireEditor(), insightHandler.Create)
			insights.GET("/stats", insightHandler.Stats)
			insights.GET("/export", exportHandler.StreamExport)
			insights.GET("/:id", insightHandler.Get)
			insights.PATCH("/:id", requireEditor(), insightHandler.Update)
			insights.DELETE("/:id", requireEditor(), insightHandler.Delete)
			insights.GET("/:id/analytics", insightHandler.Analytics)
			insights.POST("/:id/backfill-slug", requireEditor(), insightHandler.BackfillSlug)
		}

		categories := authed.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", requireEditor(), categoryHandler.Create)
			categories.POST("/defaults", requireAdmin(), categoryHandler.InitializeDefaults)
			categories.PATCH("/:slug", requireEditor(), categoryHandler.SetActive)
		}

		users := authed.Group("/users", requireAdmin())
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.GetByEmail)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
		}

		maintenance := authed.Group("/maintenance", requireAdmin())
		{
			maintenance.POST("/backfill-slugs", maintenanceHandler.Run(models.RunKindBackfillSlugs))
			maintenance.POST("/recalculate-read-times", maintenanceHandler.Run(models.RunKindRecalculateReadTimes))
			maintenance.POST("/migrate-legacy-fields", maintenanceHandler.Run(models.RunKindMigrateLegacyFields))
			maintenance.POST("/seed", maintenanceHandler.Seed)
			maintenance.GET("/runs/:run_id", maintenanceHandler.GetRun)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "live-learn-hub-api",
	})
}

// metricsHandler returns collection counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Export.GetCount(ctx, "users")
		categoriesCount, _ := services.Export.GetCount(ctx, "categories")
		insightsCount, _ := services.Export.GetCount(ctx, "insights")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":      usersCount,
				"categories": categoriesCount,
				"insights":   insightsCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, Idempotency-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
