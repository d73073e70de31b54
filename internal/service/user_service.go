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
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

type userService struct {
	repo repository.UserRepository
	cfg  *config.Config
	log  zerolog.Logger
	now  func() time.Time
}

func newUserService(repo repository.UserRepository, cfg *config.Config, log zerolog.Logger, now func() time.Time) *userService {
	return &userService{
		repo: repo,
		cfg:  cfg,
		log:  log.With().Str("service", "user").Logger(),
		now:  now,
	}
}

// Create registers an active user. Emails are unique.
func (s *userService) Create(ctx context.Context, in *models.CreateUserInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user with email %s already exists", email)
	}

	role := in.Role
	if role == "" {
		role = models.RoleViewer
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user with email %s already exists", email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("User created")
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// Update applies a partial profile change
func (s *userService) Update(ctx context.Context, id string, in *models.UpdateUserInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", id)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("User updated")
	return user, nil
}

// ValidateSession returns the user when it is active and the token has the
// accepted shape. Any other combination yields (nil, nil).
func (s *userService) ValidateSession(ctx context.Context, userID, token string) (*models.User, error) {
	if !strings.HasPrefix(token, s.cfg.Auth.TokenPrefix) || len(token) < s.cfg.Auth.MinTokenLength {
		return nil, nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, nil
	}
	return user, nil
}
