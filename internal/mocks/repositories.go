package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository           = (*MockUserRepository)(nil)
	_ repository.CategoryRepository       = (*MockCategoryRepository)(nil)
	_ repository.InsightRepository        = (*MockInsightRepository)(nil)
	_ repository.AnalyticsRepository      = (*MockAnalyticsRepository)(nil)
	_ repository.MaintenanceRunRepository = (*MockMaintenanceRunRepository)(nil)
)

// NewRepositories wires a fresh set of in-memory repositories
func NewRepositories() (*repository.Repositories, *MockRepositories) {
	m := &MockRepositories{
		User:        NewMockUserRepository(),
		Category:    NewMockCategoryRepository(),
		Insight:     NewMockInsightRepository(),
		Analytics:   NewMockAnalyticsRepository(),
		Maintenance: NewMockMaintenanceRunRepository(),
	}
	return &repository.Repositories{
		User:        m.User,
		Category:    m.Category,
		Insight:     m.Insight,
		Analytics:   m.Analytics,
		Maintenance: m.Maintenance,
	}, m
}

// MockRepositories exposes the concrete mocks behind a Repositories value
type MockRepositories struct {
	User        *MockUserRepository
	Category    *MockCategoryRepository
	Insight     *MockInsightRepository
	Analytics   *MockAnalyticsRepository
	Maintenance *MockMaintenanceRunRepository
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", repository.ErrDuplicate, constraint)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
	GetError    error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, taken := m.EmailToUser[user.Email]; taken {
		return duplicate("users_email_key")
	}
	stored := *user
	m.Users[user.ID] = &stored
	m.EmailToUser[user.Email] = &stored
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Users[user.ID]
	if !ok {
		return nil
	}
	stored.Name = user.Name
	stored.Role = user.Role
	stored.Active = user.Active
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if u, ok := m.Users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if u, ok := m.EmailToUser[email]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mu          sync.Mutex
	Categories  map[string]*models.Category // keyed by slug
	InsertError error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, taken := m.Categories[category.Slug]; taken {
		return duplicate("categories_slug_key")
	}
	stored := *category
	m.Categories[category.Slug] = &stored
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.Categories {
		if stored.ID == category.ID {
			slug := stored.Slug
			*stored = *category
			stored.Slug = slug
		}
	}
	return nil
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Categories[slug]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *MockCategoryRepository) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Category
	for _, c := range m.Categories {
		if activeOnly && !c.Active {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MockCategoryRepository) ActiveNameExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Categories {
		if c.Active && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Categories), nil
}

// MockInsightRepository is a mock implementation of InsightRepository.
// It enforces slug uniqueness the way the insights_slug_key index does.
type MockInsightRepository struct {
	mu             sync.Mutex
	Insights       map[string]*models.Insight
	InsertError    error
	PatchError     error
	PatchErrors    map[string]error // per insight id
	GetError       error
	SlugExistsFunc func(ctx context.Context, slug string) (bool, error)
	PatchCalls     int
}

func NewMockInsightRepository() *MockInsightRepository {
	return &MockInsightRepository{
		Insights:    make(map[string]*models.Insight),
		PatchErrors: make(map[string]error),
	}
}

func cloneInsight(in *models.Insight) *models.Insight {
	c := *in
	if in.Tags != nil {
		c.Tags = append([]string{}, in.Tags...)
	} else {
		c.Tags = []string{}
	}
	if in.PublishedAt != nil {
		t := *in.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func (m *MockInsightRepository) slugTakenLocked(slug, exceptID string) bool {
	for id, in := range m.Insights {
		if id != exceptID && in.Slug != "" && in.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MockInsightRepository) Create(ctx context.Context, insight *models.Insight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if insight.Slug != "" && m.slugTakenLocked(insight.Slug, "") {
		return duplicate("insights_slug_key")
	}
	m.Insights[insight.ID] = cloneInsight(insight)
	return nil
}

func (m *MockInsightRepository) Patch(ctx context.Context, id string, patch *models.InsightPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PatchCalls++
	if m.PatchError != nil {
		return m.PatchError
	}
	if err := m.PatchErrors[id]; err != nil {
		return err
	}
	stored, ok := m.Insights[id]
	if !ok || patch == nil {
		return nil
	}
	if patch.Slug != nil && *patch.Slug != "" && m.slugTakenLocked(*patch.Slug, id) {
		return duplicate("insights_slug_key")
	}
	patch.Apply(stored)
	return nil
}

func (m *MockInsightRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Insights, id)
	return nil
}

func (m *MockInsightRepository) GetByID(ctx context.Context, id string) (*models.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if in, ok := m.Insights[id]; ok {
		return cloneInsight(in), nil
	}
	return nil, nil
}

func (m *MockInsightRepository) GetBySlug(ctx context.Context, slug string) (*models.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, in := range m.Insights {
		if in.Slug != "" && in.Slug == slug {
			return cloneInsight(in), nil
		}
	}
	return nil, nil
}

func (m *MockInsightRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.SlugExistsFunc != nil {
		return m.SlugExistsFunc(ctx, slug)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTakenLocked(slug, ""), nil
}

func (m *MockInsightRepository) sortedLocked() []*models.Insight {
	out := make([]*models.Insight, 0, len(m.Insights))
	for _, in := range m.Insights {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockInsightRepository) List(ctx context.Context, filter models.InsightFilter) ([]*models.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	out := make([]*models.Insight, 0)
	for _, in := range m.sortedLocked() {
		if filter.Status != "" && in.Status != filter.Status {
			continue
		}
		if filter.Category != "" && in.Category != filter.Category {
			continue
		}
		out = append(out, cloneInsight(in))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *MockInsightRepository) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.Insights[id]
	if !ok {
		return false, nil
	}
	in.ViewCount++
	return true, nil
}

func (m *MockInsightRepository) Stats(ctx context.Context, monthStart, monthEnd time.Time) (*models.InsightStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.InsightStats{}
	categories := make(map[string]bool)
	for _, in := range m.Insights {
		stats.Total++
		switch in.Status {
		case models.StatusPublished:
			stats.Published++
		case models.StatusDraft:
			stats.Draft++
		case models.StatusArchived:
			stats.Archived++
		}
		if !in.CreatedAt.Before(monthStart) && in.CreatedAt.Before(monthEnd) {
			stats.ThisMonth++
		}
		categories[in.Category] = true
		stats.TotalViews += in.ViewCount
	}
	stats.Categories = len(categories)
	return stats, nil
}

func (m *MockInsightRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Insights), nil
}

func (m *MockInsightRepository) StreamAll(ctx context.Context, callback func(*models.Insight) error) error {
	m.mu.Lock()
	sorted := m.sortedLocked()
	snapshot := make([]*models.Insight, len(sorted))
	// oldest first
	for i, in := range sorted {
		snapshot[len(sorted)-1-i] = cloneInsight(in)
	}
	m.mu.Unlock()

	for _, in := range snapshot {
		if err := callback(in); err != nil {
			return err
		}
	}
	return nil
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository
type MockAnalyticsRepository struct {
	mu          sync.Mutex
	Events      []*models.AnalyticsEvent
	InsertError error
}

func NewMockAnalyticsRepository() *MockAnalyticsRepository {
	return &MockAnalyticsRepository{}
}

func (m *MockAnalyticsRepository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	stored := *event
	m.Events = append(m.Events, &stored)
	return nil
}

func (m *MockAnalyticsRepository) CountByInsight(ctx context.Context, insightID string) (map[models.EventType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.EventType]int)
	for _, e := range m.Events {
		if e.InsightID == insightID {
			counts[e.Event]++
		}
	}
	return counts, nil
}

// EventsFor returns the logged events for one insight
func (m *MockAnalyticsRepository) EventsFor(insightID string) []*models.AnalyticsEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AnalyticsEvent
	for _, e := range m.Events {
		if e.InsightID == insightID {
			out = append(out, e)
		}
	}
	return out
}

// MockMaintenanceRunRepository is a mock implementation of MaintenanceRunRepository
type MockMaintenanceRunRepository struct {
	mu       sync.Mutex
	Runs     map[string]*models.MaintenanceRun
	Outcomes map[string][]models.RecordOutcome
}

func NewMockMaintenanceRunRepository() *MockMaintenanceRunRepository {
	return &MockMaintenanceRunRepository{
		Runs:     make(map[string]*models.MaintenanceRun),
		Outcomes: make(map[string][]models.RecordOutcome),
	}
}

func (m *MockMaintenanceRunRepository) Create(ctx context.Context, run *models.MaintenanceRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.IdempotencyKey != "" {
		for _, existing := range m.Runs {
			if existing.IdempotencyKey == run.IdempotencyKey {
				return duplicate("maintenance_runs_idempotency_key_key")
			}
		}
	}
	stored := *run
	m.Runs[run.ID] = &stored
	return nil
}

func (m *MockMaintenanceRunRepository) Update(ctx context.Context, run *models.MaintenanceRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *run
	m.Runs[run.ID] = &stored
	return nil
}

func (m *MockMaintenanceRunRepository) GetByID(ctx context.Context, id string) (*models.MaintenanceRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.Runs[id]; ok {
		c := *run
		return &c, nil
	}
	return nil, nil
}

func (m *MockMaintenanceRunRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.MaintenanceRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, run := range m.Runs {
		if run.IdempotencyKey == key {
			c := *run
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockMaintenanceRunRepository) AddOutcomes(ctx context.Context, runID string, outcomes []models.RecordOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[runID] = append(m.Outcomes[runID], outcomes...)
	return nil
}

func (m *MockMaintenanceRunRepository) GetOutcomes(ctx context.Context, runID string, limit int) ([]models.RecordOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcomes := append([]models.RecordOutcome{}, m.Outcomes[runID]...)
	if limit > 0 && len(outcomes) > limit {
		outcomes = outcomes[:limit]
	}
	return outcomes, nil
}
