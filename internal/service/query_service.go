package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/render"
	"github.com/live-learn-hub-api/internal/repository"
)

// queryService is the concrete implementation of QueryService
type queryService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
	now   func() time.Time
}

// newQueryService creates a new QueryService
func newQueryService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, now func() time.Time) *queryService {
	return &queryService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "query").Logger(),
		now:   now,
	}
}

// authorCache memoises user lookups for the lifetime of one query
type authorCache map[string]*models.User

func (s *queryService) GetByID(ctx context.Context, id string) (*models.InsightView, error) {
	insight, err := s.repos.Insight.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load insight: %w", err)
	}
	if insight == nil {
		return nil, nil
	}
	return s.withAuthor(ctx, insight, authorCache{}), nil
}

func (s *queryService) GetBySlug(ctx context.Context, slug string) (*models.InsightView, error) {
	insight, err := s.repos.Insight.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load insight: %w", err)
	}
	if insight == nil {
		return nil, nil
	}
	return s.withAuthor(ctx, insight, authorCache{}), nil
}

// GetPublishedBySlug returns a published insight with its body rendered to HTML.
// Drafts and archived insights read as absent.
func (s *queryService) GetPublishedBySlug(ctx context.Context, slug string) (*models.InsightView, error) {
	view, err := s.GetBySlug(ctx, slug)
	if err != nil || view == nil {
		return nil, err
	}
	if view.Status != models.StatusPublished {
		return nil, nil
	}

	html, err := render.Markdown(view.Content)
	if err != nil {
		return nil, err
	}
	view.ContentHTML = html
	return view, nil
}

// List returns insights newest first, filtered by status and category before the limit
func (s *queryService) List(ctx context.Context, filter models.InsightFilter) ([]*models.InsightView, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.Content.DefaultListLimit
	}

	insights, err := s.repos.Insight.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}

	cache := authorCache{}
	views := make([]*models.InsightView, 0, len(insights))
	for _, insight := range insights {
		views = append(views, s.withAuthor(ctx, insight, cache))
	}
	return views, nil
}

// Stats aggregates the collection. The month window is taken in the clock's location.
func (s *queryService) Stats(ctx context.Context) (*models.InsightStats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats, err := s.repos.Insight.Stats(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}

// EventCounts returns the logged events per type, zero-filled
func (s *queryService) EventCounts(ctx context.Context, id string) (map[models.EventType]int, error) {
	counts, err := s.repos.Analytics.CountByInsight(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	for event := range models.ValidEvents {
		if _, ok := counts[event]; !ok {
			counts[event] = 0
		}
	}
	return counts, nil
}

// withAuthor resolves the display author from the users registry, falling
// back to the denormalized author when the user is gone or unreadable.
func (s *queryService) withAuthor(ctx context.Context, insight *models.Insight, cache authorCache) *models.InsightView {
	view := &models.InsightView{Insight: *insight, AuthorName: insight.Author}

	user, cached := cache[insight.AuthorID]
	if !cached {
		var err error
		user, err = s.repos.User.GetByID(ctx, insight.AuthorID)
		if err != nil {
			s.log.Warn().Err(err).
				Str("insight_id", insight.ID).
				Str("author_id", insight.AuthorID).
				Msg("Author lookup failed, using stored author")
			user = nil
		}
		cache[insight.AuthorID] = user
	}

	if user != nil {
		view.AuthorEmail = user.Email
		if user.Name != "" {
			view.AuthorName = user.Name
		}
	}
	return view
}
