package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// InsightService defines the state-changing operations on insights
type InsightService interface {
	Create(ctx context.Context, in *models.CreateInsightInput) (*models.Insight, error)
	Update(ctx context.Context, id string, in *models.UpdateInsightInput) (*models.Insight, error)
	Delete(ctx context.Context, id string) error
	RecordView(ctx context.Context, id string, visitor models.Visitor) error
	RecordEvent(ctx context.Context, id string, event models.EventType, visitor models.Visitor) error
	BackfillSlug(ctx context.Context, id string) (*models.RecordOutcome, error)
}

// QueryService defines read-only insight retrieval. Absent records are (nil, nil).
type QueryService interface {
	GetByID(ctx context.Context, id string) (*models.InsightView, error)
	GetBySlug(ctx context.Context, slug string) (*models.InsightView, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.InsightView, error)
	List(ctx context.Context, filter models.InsightFilter) ([]*models.InsightView, error)
	Stats(ctx context.Context) (*models.InsightStats, error)
	EventCounts(ctx context.Context, id string) (map[models.EventType]int, error)
}

// CategoryService defines the category registry
type CategoryService interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Category, error)
	Create(ctx context.Context, in *models.CreateCategoryInput) (*models.Category, error)
	SetActive(ctx context.Context, slug string, active bool) (*models.Category, error)
	InitializeDefaults(ctx context.Context) ([]*models.Category, error)
}

// UserService defines the user registry
type UserService interface {
	Create(ctx context.Context, in *models.CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, in *models.UpdateUserInput) (*models.User, error)
	ValidateSession(ctx context.Context, userID, token string) (*models.User, error)
}

// MaintenanceService runs the synchronous batch passes over all insights
type MaintenanceService interface {
	Run(ctx context.Context, kind models.RunKind, idempotencyKey string) (*models.RunResponse, error)
	BackfillSlugs(ctx context.Context, idempotencyKey string) (*models.RunResponse, error)
	RecalculateReadTimes(ctx context.Context, idempotencyKey string) (*models.RunResponse, error)
	MigrateLegacyFields(ctx context.Context, idempotencyKey string) (*models.RunResponse, error)
	GetRun(ctx context.Context, id string) (*models.RunResponse, error)
	GetRunByIdempotencyKey(ctx context.Context, key string) (*models.RunResponse, error)
}

// SeedService bootstraps reference and sample data
type SeedService interface {
	Seed(ctx context.Context) (*models.SeedResult, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamInsights(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Insight     InsightService
	Query       QueryService
	Category    CategoryService
	User        UserService
	Maintenance MaintenanceService
	Seed        SeedService
	Export      ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return NewServicesWithClock(repos, cfg, log, time.Now)
}

// NewServicesWithClock creates all services reading the time from now
func NewServicesWithClock(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, now func() time.Time) *Services {
	insightSvc := newInsightService(repos, cfg, log, now)
	categorySvc := newCategoryService(repos.Category, log, now)
	userSvc := newUserService(repos.User, cfg, log, now)

	return &Services{
		Insight:     insightSvc,
		Query:       newQueryService(repos, cfg, log, now),
		Category:    categorySvc,
		User:        userSvc,
		Maintenance: newMaintenanceService(repos, insightSvc, cfg, log, now),
		Seed:        newSeedService(repos, insightSvc, categorySvc, userSvc, cfg, log),
		Export:      newExportService(repos, log),
	}
}
