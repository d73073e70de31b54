package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
)

// ErrDuplicate is returned when a write violates a unique index
var ErrDuplicate = errors.New("duplicate key")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Category, error)
	ActiveNameExists(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// InsightRepository defines the interface for insight data operations
type InsightRepository interface {
	Create(ctx context.Context, insight *models.Insight) error
	Patch(ctx context.Context, id string, patch *models.InsightPatch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Insight, error)
	GetBySlug(ctx context.Context, slug string) (*models.Insight, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter models.InsightFilter) ([]*models.Insight, error)
	IncrementViewCount(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, monthStart, monthEnd time.Time) (*models.InsightStats, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Insight) error) error
}

// AnalyticsRepository defines the interface for the analytics event log
type AnalyticsRepository interface {
	Create(ctx context.Context, event *models.AnalyticsEvent) error
	CountByInsight(ctx context.Context, insightID string) (map[models.EventType]int, error)
}

// MaintenanceRunRepository defines the interface for maintenance run records
type MaintenanceRunRepository interface {
	Create(ctx context.Context, run *models.MaintenanceRun) error
	Update(ctx context.Context, run *models.MaintenanceRun) error
	GetByID(ctx context.Context, id string) (*models.MaintenanceRun, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.MaintenanceRun, error)
	AddOutcomes(ctx context.Context, runID string, outcomes []models.RecordOutcome) error
	GetOutcomes(ctx context.Context, runID string, limit int) ([]models.RecordOutcome, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Category    CategoryRepository
	Insight     InsightRepository
	Analytics   AnalyticsRepository
	Maintenance MaintenanceRunRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepo(db),
		Category:    NewCategoryRepo(db),
		Insight:     NewInsightRepo(db),
		Analytics:   NewAnalyticsRepo(db),
		Maintenance: NewMaintenanceRunRepo(db),
	}
}

// translateWriteError maps unique violations to ErrDuplicate
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := database.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, constraint)
	}
	return err
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
