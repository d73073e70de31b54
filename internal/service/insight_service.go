package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/content"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// insightService is the concrete implementation of InsightService
type insightService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
	now   func() time.Time
}

// newInsightService creates a new InsightService
func newInsightService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, now func() time.Time) *insightService {
	return &insightService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "insight").Logger(),
		now:   now,
	}
}

// Create inserts a new insight with its slug and read time derived
func (s *insightService) Create(ctx context.Context, in *models.CreateInsightInput) (*models.Insight, error) {
	author, err := s.repos.User.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	if author == nil {
		return nil, apperr.NotFound("author %s not found", in.AuthorID)
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if status != models.StatusDraft && status != models.StatusPublished {
		return nil, apperr.Validation([]apperr.FieldError{
			{Field: "status", Message: "invalid status, must be one of: draft, published", Value: status},
		})
	}

	if err := s.checkCategory(ctx, in.Category); err != nil {
		return nil, err
	}

	now := s.now()
	insight := &models.Insight{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		Category:      in.Category,
		Author:        author.DisplayName(),
		AuthorName:    author.Name,
		AuthorBio:     in.AuthorBio,
		AuthorID:      author.ID,
		ReadTime:      in.ReadTime,
		Status:        status,
		FeaturedImage: in.FeaturedImage,
		Tags:          in.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if insight.AuthorBio == "" {
		insight.AuthorBio = s.cfg.Content.DefaultAuthorBio
	}
	if insight.ReadTime == "" {
		insight.ReadTime = content.EstimateReadTime(in.Content)
	}
	if insight.Tags == nil {
		insight.Tags = []string{}
	}
	if status == models.StatusPublished {
		insight.PublishedAt = &now
	}

	_, err = s.withUniqueSlug(ctx, in.Title, func(slug string) error {
		insight.Slug = slug
		return s.repos.Insight.Create(ctx, insight)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("insight_id", insight.ID).
		Str("slug", insight.Slug).
		Str("status", string(insight.Status)).
		Msg("Insight created")

	return insight, nil
}

// Update merges the supplied fields over the stored insight
func (s *insightService) Update(ctx context.Context, id string, in *models.UpdateInsightInput) (*models.Insight, error) {
	existing, err := s.repos.Insight.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load insight: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("insight %s not found", id)
	}

	if in.Category != nil {
		if err := s.checkCategory(ctx, *in.Category); err != nil {
			return nil, err
		}
	}

	now := s.now()
	patch := &models.InsightPatch{
		Title:         in.Title,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		Category:      in.Category,
		Status:        in.Status,
		FeaturedImage: in.FeaturedImage,
		Tags:          in.Tags,
		ReadTime:      in.ReadTime,
		AuthorBio:     in.AuthorBio,
		UpdatedAt:     &now,
	}

	if in.Content != nil && in.ReadTime == nil {
		readTime := content.EstimateReadTime(*in.Content)
		patch.ReadTime = &readTime
	}

	// publishedAt is written once, on the first move into published
	if in.Status != nil && *in.Status == models.StatusPublished &&
		existing.Status != models.StatusPublished && existing.PublishedAt == nil {
		patch.PublishedAt = &now
	}

	if err := s.repos.Insight.Patch(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("patch insight: %w", err)
	}
	patch.Apply(existing)

	s.log.Info().Str("insight_id", id).Str("status", string(existing.Status)).Msg("Insight updated")

	return existing, nil
}

// Delete hard-deletes an insight. Deleting a missing insight succeeds.
func (s *insightService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Insight.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	s.log.Info().Str("insight_id", id).Msg("Insight deleted")
	return nil
}

// RecordView increments the view counter and logs a view event.
// Unknown ids are ignored.
func (s *insightService) RecordView(ctx context.Context, id string, visitor models.Visitor) error {
	found, err := s.repos.Insight.IncrementViewCount(ctx, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	if !found {
		s.log.Debug().Str("insight_id", id).Msg("View for unknown insight ignored")
		return nil
	}
	return s.appendEvent(ctx, id, models.EventView, visitor)
}

// RecordEvent logs a share or like. A view is routed to RecordView.
func (s *insightService) RecordEvent(ctx context.Context, id string, event models.EventType, visitor models.Visitor) error {
	if event == models.EventView {
		return s.RecordView(ctx, id, visitor)
	}
	if !models.ValidEvents[event] {
		return apperr.Validation([]apperr.FieldError{{Field: "event", Message: "invalid event", Value: event}})
	}

	insight, err := s.repos.Insight.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load insight: %w", err)
	}
	if insight == nil {
		s.log.Debug().Str("insight_id", id).Str("event", string(event)).Msg("Event for unknown insight ignored")
		return nil
	}
	return s.appendEvent(ctx, id, event, visitor)
}

func (s *insightService) appendEvent(ctx context.Context, id string, event models.EventType, visitor models.Visitor) error {
	err := s.repos.Analytics.Create(ctx, &models.AnalyticsEvent{
		ID:        uuid.New().String(),
		InsightID: id,
		Event:     event,
		Timestamp: s.now(),
		UserAgent: visitor.UserAgent,
		IPAddress: visitor.IPAddress,
	})
	if err != nil {
		return fmt.Errorf("append %s event: %w", event, err)
	}
	return nil
}

// BackfillSlug gives a legacy insight its slug. Insights that already have one are left alone.
func (s *insightService) BackfillSlug(ctx context.Context, id string) (*models.RecordOutcome, error) {
	insight, err := s.repos.Insight.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load insight: %w", err)
	}
	if insight == nil {
		return nil, apperr.NotFound("insight %s not found", id)
	}
	return s.backfillSlug(ctx, insight)
}

func (s *insightService) backfillSlug(ctx context.Context, insight *models.Insight) (*models.RecordOutcome, error) {
	outcome := &models.RecordOutcome{InsightID: insight.ID, Previous: insight.Slug, Current: insight.Slug}
	if insight.Slug != "" {
		outcome.Result = models.OutcomeUnchanged
		return outcome, nil
	}

	slug, err := s.withUniqueSlug(ctx, insight.Title, func(slug string) error {
		return s.repos.Insight.Patch(ctx, insight.ID, &models.InsightPatch{Slug: &slug})
	})
	if err != nil {
		return nil, err
	}

	insight.Slug = slug
	outcome.Current = slug
	outcome.Result = models.OutcomeUpdated

	s.log.Info().Str("insight_id", insight.ID).Str("slug", slug).Msg("Slug backfilled")
	return outcome, nil
}

// withUniqueSlug allocates a slug for title and hands it to write. When write
// loses a race on the unique slug index, allocation is repeated.
// Titles without any [a-z0-9] character have no slug and are rejected.
func (s *insightService) withUniqueSlug(ctx context.Context, title string, write func(slug string) error) (string, error) {
	if content.GenerateSlug(title) == "" {
		return "", apperr.Validation([]apperr.FieldError{
			{Field: "title", Message: "title must contain at least one letter or digit (a-z, 0-9)", Value: title},
		})
	}

	attempts := s.cfg.Content.SlugInsertRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		slug, err := content.AllocateUniqueSlug(ctx, title, s.repos.Insight.SlugExists)
		if err != nil {
			return "", fmt.Errorf("allocate slug: %w", err)
		}

		err = write(slug)
		if err == nil {
			return slug, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("write insight: %w", err)
		}

		lastErr = err
		s.log.Warn().Str("slug", slug).Int("attempt", attempt).Msg("Slug taken by a concurrent writer, retrying")
	}

	return "", apperr.Wrap(apperr.CodeConflict, "could not allocate a unique slug", lastErr)
}

// checkCategory requires name to match an active category when enforcement is on
func (s *insightService) checkCategory(ctx context.Context, name string) error {
	if !s.cfg.Content.EnforceCategories {
		return nil
	}
	ok, err := s.repos.Category.ActiveNameExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return apperr.Validation([]apperr.FieldError{
			{Field: "category", Message: "category must name an active category", Value: name},
		})
	}
	return nil
}
