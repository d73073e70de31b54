package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/content"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// outcomeBatchSize bounds the outcomes buffered before a COPY flush
const outcomeBatchSize = 500

// maxReportedOutcomes bounds the outcomes returned with a run
const maxReportedOutcomes = 100

// recordFunc computes and writes the change for one insight
type recordFunc func(ctx context.Context, insight *models.Insight) (*models.RecordOutcome, error)

// maintenanceService is the concrete implementation of MaintenanceService
type maintenanceService struct {
	repos    *repository.Repositories
	insights *insightService
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

// newMaintenanceService creates a new MaintenanceService
func newMaintenanceService(repos *repository.Repositories, insights *insightService, cfg *config.Config, log zerolog.Logger, now func() time.Time) *maintenanceService {
	return &maintenanceService{
		repos:    repos,
		insights: insights,
		cfg:      cfg,
		log:      log.With().Str("service", "maintenance").Logger(),
		now:      now,
	}
}

// Run dispatches a pass by kind
func (s *maintenanceService) Run(ctx context.Context, kind models.RunKind, idempotencyKey string) (*models.RunResponse, error) {
	switch kind {
	case models.RunKindBackfillSlugs:
		return s.BackfillSlugs(ctx, idempotencyKey)
	case models.RunKindRecalculateReadTimes:
		return s.RecalculateReadTimes(ctx, idempotencyKey)
	case models.RunKindMigrateLegacyFields:
		return s.MigrateLegacyFields(ctx, idempotencyKey)
	default:
		return nil, apperr.Validation([]apperr.FieldError{{Field: "kind", Message: "unknown maintenance pass", Value: kind}})
	}
}

// BackfillSlugs gives every slug-less insight a unique slug
func (s *maintenanceService) BackfillSlugs(ctx context.Context, idempotencyKey string) (*models.RunResponse, error) {
	return s.execute(ctx, models.RunKindBackfillSlugs, idempotencyKey, s.insights.backfillSlug)
}

// RecalculateReadTimes rewrites read times that differ from the estimate of the current content
func (s *maintenanceService) RecalculateReadTimes(ctx context.Context, idempotencyKey string) (*models.RunResponse, error) {
	return s.execute(ctx, models.RunKindRecalculateReadTimes, idempotencyKey, s.recalculateReadTime)
}

// MigrateLegacyFields fills read time, author name and author bio on records that predate them
func (s *maintenanceService) MigrateLegacyFields(ctx context.Context, idempotencyKey string) (*models.RunResponse, error) {
	return s.execute(ctx, models.RunKindMigrateLegacyFields, idempotencyKey, s.migrateLegacyFields)
}

// GetRun retrieves a run with its first outcomes
func (s *maintenanceService) GetRun(ctx context.Context, id string) (*models.RunResponse, error) {
	run, err := s.repos.Maintenance.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.response(ctx, run)
}

// GetRunByIdempotencyKey retrieves the run started with key
func (s *maintenanceService) GetRunByIdempotencyKey(ctx context.Context, key string) (*models.RunResponse, error) {
	run, err := s.repos.Maintenance.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.response(ctx, run)
}

func (s *maintenanceService) response(ctx context.Context, run *models.MaintenanceRun) (*models.RunResponse, error) {
	outcomes, err := s.repos.Maintenance.GetOutcomes(ctx, run.ID, maxReportedOutcomes)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to get run outcomes")
		outcomes = []models.RecordOutcome{}
	}
	return &models.RunResponse{MaintenanceRun: *run, Outcomes: outcomes}, nil
}

// execute runs fn over every insight, recording one outcome per record.
// A failing record is recorded as failed and the pass moves on.
func (s *maintenanceService) execute(ctx context.Context, kind models.RunKind, idempotencyKey string, fn recordFunc) (*models.RunResponse, error) {
	if idempotencyKey != "" {
		existing, err := s.GetRunByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.log.Info().Str("run_id", existing.ID).Str("idempotency_key", idempotencyKey).Msg("Returning existing run")
			return existing, nil
		}
	}

	startTime := s.now()
	run := &models.MaintenanceRun{
		ID:             uuid.New().String(),
		Kind:           kind,
		Status:         models.RunStatusRunning,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      startTime,
	}
	if err := s.repos.Maintenance.Create(ctx, run); err != nil {
		if errors.Is(err, repository.ErrDuplicate) && idempotencyKey != "" {
			return s.GetRunByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, fmt.Errorf("create run: %w", err)
	}

	s.log.Info().Str("run_id", run.ID).Str("kind", string(kind)).Msg("Starting maintenance run")

	// Collect first so writes never interleave with the read cursor
	var insights []*models.Insight
	err := s.repos.Insight.StreamAll(ctx, func(insight *models.Insight) error {
		insights = append(insights, insight)
		return nil
	})

	reported := make([]models.RecordOutcome, 0)
	batch := make([]models.RecordOutcome, 0, outcomeBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if ferr := s.repos.Maintenance.AddOutcomes(ctx, run.ID, batch); ferr != nil {
			s.log.Error().Err(ferr).Str("run_id", run.ID).Msg("Failed to store run outcomes")
		}
		batch = batch[:0]
	}

	if err == nil {
		for _, insight := range insights {
			outcome := s.processRecord(ctx, run.ID, insight, fn)
			run.Record(outcome)
			batch = append(batch, outcome)
			if len(reported) < maxReportedOutcomes {
				reported = append(reported, outcome)
			}
			if len(batch) >= outcomeBatchSize {
				flush()
			}
		}
		flush()
	}

	completedAt := s.now()
	run.CompletedAt = &completedAt
	run.DurationMs = completedAt.Sub(startTime).Milliseconds()

	if err != nil {
		run.Status = models.RunStatusFailed
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Maintenance run failed")
	} else {
		run.Status = models.RunStatusCompleted
		s.log.Info().
			Str("run_id", run.ID).
			Str("kind", string(kind)).
			Int("total", run.TotalRecords).
			Int("updated", run.UpdatedCount).
			Int("unchanged", run.UnchangedCount).
			Int("failed", run.FailedCount).
			Int64("duration_ms", run.DurationMs).
			Msg("Maintenance run completed")
	}

	if uerr := s.repos.Maintenance.Update(ctx, run); uerr != nil {
		s.log.Error().Err(uerr).Str("run_id", run.ID).Msg("Failed to update run")
	}

	if err != nil {
		return nil, fmt.Errorf("read insights: %w", err)
	}
	return &models.RunResponse{MaintenanceRun: *run, Outcomes: reported}, nil
}

// processRecord applies fn to one insight, converting errors and panics into a failed outcome
func (s *maintenanceService) processRecord(ctx context.Context, runID string, insight *models.Insight, fn recordFunc) (outcome models.RecordOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Str("run_id", runID).
				Str("insight_id", insight.ID).
				Msg("Record processing panicked - recovered")
			outcome = models.RecordOutcome{
				InsightID: insight.ID,
				Result:    models.OutcomeFailed,
				Message:   fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	result, err := fn(ctx, insight)
	if err != nil {
		s.log.Warn().Err(err).Str("run_id", runID).Str("insight_id", insight.ID).Msg("Record update failed")
		return models.RecordOutcome{InsightID: insight.ID, Result: models.OutcomeFailed, Message: err.Error()}
	}
	return *result
}

func (s *maintenanceService) recalculateReadTime(ctx context.Context, insight *models.Insight) (*models.RecordOutcome, error) {
	readTime := content.EstimateReadTime(insight.Content)
	outcome := &models.RecordOutcome{InsightID: insight.ID, Previous: insight.ReadTime, Current: readTime}

	if readTime == insight.ReadTime {
		outcome.Result = models.OutcomeUnchanged
		return outcome, nil
	}

	if err := s.repos.Insight.Patch(ctx, insight.ID, &models.InsightPatch{ReadTime: &readTime}); err != nil {
		return nil, err
	}
	outcome.Result = models.OutcomeUpdated
	return outcome, nil
}

func (s *maintenanceService) migrateLegacyFields(ctx context.Context, insight *models.Insight) (*models.RecordOutcome, error) {
	patch := &models.InsightPatch{}
	var filled []string

	if insight.ReadTime == "" {
		readTime := content.EstimateReadTime(insight.Content)
		patch.ReadTime = &readTime
		filled = append(filled, "read_time")
	}
	if insight.AuthorName == "" && insight.Author != "" {
		authorName := insight.Author
		patch.AuthorName = &authorName
		filled = append(filled, "author_name")
	}
	if insight.AuthorBio == "" && s.cfg.Content.DefaultAuthorBio != "" {
		bio := s.cfg.Content.DefaultAuthorBio
		patch.AuthorBio = &bio
		filled = append(filled, "author_bio")
	}

	outcome := &models.RecordOutcome{InsightID: insight.ID}
	if patch.IsEmpty() {
		outcome.Result = models.OutcomeUnchanged
		return outcome, nil
	}

	if err := s.repos.Insight.Patch(ctx, insight.ID, patch); err != nil {
		return nil, err
	}
	outcome.Result = models.OutcomeUpdated
	outcome.Current = strings.Join(filled, ",")
	return outcome, nil
}
