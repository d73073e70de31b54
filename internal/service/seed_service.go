package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// sampleInsights are inserted on an empty database
var sampleInsights = []models.CreateInsightInput{
	{
		Title:    "Boundaries Protect Your Peace",
		Content:  "Learning to set healthy boundaries is essential for maintaining your mental and emotional well-being. Boundaries are not walls that keep people out, but rather guidelines that help you maintain healthy relationships while protecting your energy and values.",
		Excerpt:  "Learning to set healthy boundaries is essential for maintaining your mental and emotional well-being.",
		Category: "Personal Growth",
		Status:   models.StatusPublished,
		Tags:     []string{"boundaries", "mental-health", "self-care"},
	},
	{
		Title:    "Learn to be Present",
		Content:  "Mindfulness and presence are skills that can be developed with practice and intention. In our fast-paced world, learning to slow down and be fully present in each moment can transform your experience of life.",
		Excerpt:  "Mindfulness and presence are skills that can be developed with practice and intention.",
		Category: "Mindset",
		Status:   models.StatusPublished,
		Tags:     []string{"mindfulness", "presence", "meditation"},
	},
	{
		Title:    "The Power of Vulnerability in Leadership",
		Content:  "True leadership strength comes from the courage to be vulnerable and authentic. When leaders show their humanity, they create deeper connections and inspire others to bring their whole selves to work.",
		Excerpt:  "True leadership strength comes from the courage to be vulnerable and authentic.",
		Category: "Leadership",
		Status:   models.StatusPublished,
		Tags:     []string{"leadership", "vulnerability", "authenticity"},
	},
	{
		Title:    "Building Resilient Communities",
		Content:  "Strong communities are built on trust, mutual support, and shared values. Creating resilient communities requires intentional effort to foster connection and belonging among all members.",
		Excerpt:  "Strong communities are built on trust, mutual support, and shared values.",
		Category: "Community",
		Status:   models.StatusPublished,
		Tags:     []string{"community", "resilience", "connection"},
	},
	{
		Title:    "Finding Your Life Purpose",
		Content:  "Discovering your purpose is a journey of self-discovery and alignment with your values. It's not about finding the perfect career, but about understanding what gives your life meaning and direction.",
		Excerpt:  "Discovering your purpose is a journey of self-discovery and alignment with your values.",
		Category: "Purpose",
		Status:   models.StatusDraft,
		Tags:     []string{"purpose", "meaning", "values"},
	},
	{
		Title:    "Wellness Beyond Physical Health",
		Content:  "True wellness encompasses mental, emotional, spiritual, and social well-being. It's about creating balance and harmony in all aspects of your life, not just maintaining physical fitness.",
		Excerpt:  "True wellness encompasses mental, emotional, spiritual, and social well-being.",
		Category: "Wellness",
		Status:   models.StatusPublished,
		Tags:     []string{"wellness", "holistic-health", "balance"},
	},
}

type seedService struct {
	repos      *repository.Repositories
	insights   InsightService
	categories CategoryService
	users      UserService
	cfg        *config.Config
	log        zerolog.Logger
}

func newSeedService(repos *repository.Repositories, insights InsightService, categories CategoryService, users UserService, cfg *config.Config, log zerolog.Logger) *seedService {
	return &seedService{
		repos:      repos,
		insights:   insights,
		categories: categories,
		users:      users,
		cfg:        cfg,
		log:        log.With().Str("service", "seed").Logger(),
	}
}

// Seed creates the admin user, the default categories and, on an empty
// collection, the sample insights. Running it again changes nothing.
func (s *seedService) Seed(ctx context.Context) (*models.SeedResult, error) {
	result := &models.SeedResult{CategoriesCreated: []string{}, InsightsSkipped: []string{}}

	admin, err := s.users.GetByEmail(ctx, s.cfg.Seed.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if admin == nil {
		admin, err = s.users.Create(ctx, &models.CreateUserInput{
			Email: s.cfg.Seed.AdminEmail,
			Name:  s.cfg.Seed.AdminName,
			Role:  models.RoleAdmin,
		})
		if err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		result.AdminCreated = true
	}
	result.AdminUserID = admin.ID

	created, err := s.categories.InitializeDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	for _, category := range created {
		result.CategoriesCreated = append(result.CategoriesCreated, category.Slug)
	}

	count, err := s.repos.Insight.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count insights: %w", err)
	}
	if count == 0 {
		for i := range sampleInsights {
			in := sampleInsights[i]
			in.AuthorID = admin.ID
			in.Tags = append([]string{}, sampleInsights[i].Tags...)
			usable, err := s.categoryUsable(ctx, in.Category)
			if err != nil {
				return nil, fmt.Errorf("check category %q: %w", in.Category, err)
			}
			if !usable {
				s.log.Warn().Str("title", in.Title).Str("category", in.Category).Msg("Skipping sample insight in inactive category")
				result.InsightsSkipped = append(result.InsightsSkipped, in.Title)
				continue
			}
			if _, err := s.insights.Create(ctx, &in); err != nil {
				return nil, fmt.Errorf("seed insight %q: %w", in.Title, err)
			}
			result.InsightsCreated++
		}
	}

	s.log.Info().
		Bool("admin_created", result.AdminCreated).
		Int("categories_created", len(result.CategoriesCreated)).
		Int("insights_created", result.InsightsCreated).
		Int("insights_skipped", len(result.InsightsSkipped)).
		Msg("Seed completed")

	return result, nil
}

// categoryUsable mirrors the create-time category check so a deactivated
// default category skips its sample instead of failing the seed
func (s *seedService) categoryUsable(ctx context.Context, name string) (bool, error) {
	if !s.cfg.Content.EnforceCategories {
		return true, nil
	}
	return s.repos.Category.ActiveNameExists(ctx, name)
}
