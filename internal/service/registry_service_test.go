package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/models"
)

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.User.Create(f.ctx, &models.CreateUserInput{Email: " reader@example.com ", Name: "Reader"})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, models.RoleViewer, user.Role, "role defaults to viewer")
	assert.True(t, user.Active)

	_, err = f.svc.User.Create(f.ctx, &models.CreateUserInput{Email: "reader@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict), "got %v", err)

	found, err := f.svc.User.GetByEmail(f.ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	missing, err := f.svc.User.GetByID(f.ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	editor := models.RoleEditor
	inactive := false

	updated, err := f.svc.User.Update(f.ctx, f.author.ID, &models.UpdateUserInput{Role: &editor, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, updated.Role)
	assert.False(t, updated.Active)
	assert.Equal(t, "Vance Stratir", updated.Name)

	_, err = f.svc.User.Update(f.ctx, uuid.New().String(), &models.UpdateUserInput{Role: &editor})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUserService_ValidateSession(t *testing.T) {
	f := newFixture(t)
	token := "auth_0123456789abcdefg"

	tests := []struct {
		name   string
		userID string
		token  string
		valid  bool
	}{
		{"valid", f.author.ID, token, true},
		{"wrong prefix", f.author.ID, "sess_0123456789abcdefg", false},
		{"too short", f.author.ID, "auth_0123", false},
		{"unknown user", uuid.New().String(), token, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.svc.User.ValidateSession(f.ctx, tt.userID, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, user != nil)
		})
	}

	inactive := false
	_, err := f.svc.User.Update(f.ctx, f.author.ID, &models.UpdateUserInput{Active: &inactive})
	require.NoError(t, err)

	user, err := f.svc.User.ValidateSession(f.ctx, f.author.ID, token)
	require.NoError(t, err)
	assert.Nil(t, user, "inactive users have no session")
}

func TestCategoryService_Create(t *testing.T) {
	f := newFixture(t)

	category, err := f.svc.Category.Create(f.ctx, &models.CreateCategoryInput{Name: "Inner Work", Color: "#111111"})
	require.NoError(t, err)
	assert.Equal(t, "inner-work", category.Slug)
	assert.True(t, category.Active)

	_, err = f.svc.Category.Create(f.ctx, &models.CreateCategoryInput{Name: "Inner work (again)", Slug: "inner-work"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict), "got %v", err)

	_, err = f.svc.Category.Create(f.ctx, &models.CreateCategoryInput{Name: "!!!"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
}

func TestCategoryService_SetActive(t *testing.T) {
	f := newFixture(t)

	category, err := f.svc.Category.SetActive(f.ctx, "wellness", false)
	require.NoError(t, err)
	assert.False(t, category.Active)

	active, err := f.svc.Category.List(f.ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, len(models.DefaultCategories)-1)

	all, err := f.svc.Category.List(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, len(models.DefaultCategories))

	_, err = f.svc.Category.SetActive(f.ctx, "astrology", false)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCategoryService_InitializeDefaultsIsIdempotent(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Category.InitializeDefaults(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, created, "fixture already seeded the defaults")

	count, _ := f.repos.Category.Count(f.ctx)
	assert.Equal(t, len(models.DefaultCategories), count)
}

func TestSeedService_Seed(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Seed.Seed(f.ctx)
	require.NoError(t, err)
	assert.True(t, first.AdminCreated)
	assert.Empty(t, first.CategoriesCreated)
	assert.Equal(t, 6, first.InsightsCreated)
	assert.Empty(t, first.InsightsSkipped)

	admin, err := f.svc.User.GetByEmail(f.ctx, f.cfg.Seed.AdminEmail)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, admin.ID, first.AdminUserID)

	stats, err := f.svc.Query.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Published)
	assert.Equal(t, 1, stats.Draft)

	view, err := f.svc.Query.GetBySlug(f.ctx, "boundaries-protect-your-peace")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, []string{"boundaries", "mental-health", "self-care"}, view.Tags)
	assert.Equal(t, "< 1 min", view.ReadTime)

	second, err := f.svc.Seed.Seed(f.ctx)
	require.NoError(t, err)
	assert.False(t, second.AdminCreated)
	assert.Equal(t, first.AdminUserID, second.AdminUserID)
	assert.Zero(t, second.InsightsCreated)

	count, _ := f.repos.Insight.Count(f.ctx)
	assert.Equal(t, 6, count)
}

func TestSeedService_SeedSkipsInactiveCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Category.SetActive(f.ctx, "wellness", false)
	require.NoError(t, err)

	result, err := f.svc.Seed.Seed(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, result.InsightsCreated)
	assert.Equal(t, []string{"Wellness Beyond Physical Health"}, result.InsightsSkipped)

	view, err := f.svc.Query.GetBySlug(f.ctx, "wellness-beyond-physical-health")
	require.NoError(t, err)
	assert.Nil(t, view)

	count, _ := f.repos.Insight.Count(f.ctx)
	assert.Equal(t, 5, count)
}

func TestSeedService_SeedIgnoresInactiveCategoryWhenNotEnforced(t *testing.T) {
	cfg := config.Default()
	cfg.Content.EnforceCategories = false
	f := newFixtureWithConfig(t, cfg)

	_, err := f.svc.Category.SetActive(f.ctx, "wellness", false)
	require.NoError(t, err)

	result, err := f.svc.Seed.Seed(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, result.InsightsCreated)
	assert.Empty(t, result.InsightsSkipped)
}
