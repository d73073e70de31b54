package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/content"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

type categoryService struct {
	repo repository.CategoryRepository
	log  zerolog.Logger
	now  func() time.Time
}

func newCategoryService(repo repository.CategoryRepository, log zerolog.Logger, now func() time.Time) *categoryService {
	return &categoryService{
		repo: repo,
		log:  log.With().Str("service", "category").Logger(),
		now:  now,
	}
}

func (s *categoryService) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	categories, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

// Create adds an active category. The slug defaults to one derived from the name.
func (s *categoryService) Create(ctx context.Context, in *models.CreateCategoryInput) (*models.Category, error) {
	slug := in.Slug
	if slug == "" {
		slug = content.GenerateSlug(in.Name)
	}
	if slug == "" {
		return nil, apperr.Validation([]apperr.FieldError{
			{Field: "slug", Message: "slug cannot be derived from name", Value: in.Name},
		})
	}

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("category with slug %q already exists", slug)
	}

	now := s.now()
	category := &models.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Color:       in.Color,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("category with slug %q already exists", slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info().Str("slug", slug).Msg("Category created")
	return category, nil
}

// SetActive soft-activates or deactivates a category
func (s *categoryService) SetActive(ctx context.Context, slug string, active bool) (*models.Category, error) {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFound("category %s not found", slug)
	}
	if category.Active == active {
		return category, nil
	}

	category.Active = active
	category.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.log.Info().Str("slug", slug).Bool("active", active).Msg("Category activation changed")
	return category, nil
}

// InitializeDefaults inserts the default categories that are missing and returns them
func (s *categoryService) InitializeDefaults(ctx context.Context) ([]*models.Category, error) {
	created := make([]*models.Category, 0)

	for i := range models.DefaultCategories {
		def := models.DefaultCategories[i]
		category, err := s.Create(ctx, &def)
		if apperr.Is(err, apperr.CodeConflict) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append(created, category)
	}

	s.log.Info().Int("created", len(created)).Msg("Default categories initialized")
	return created, nil
}
