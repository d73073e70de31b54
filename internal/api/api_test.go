package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/api"
	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/mocks"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
)

const testToken = "auth_0123456789abcdef"

type testEnv struct {
	router     *gin.Engine
	services   *service.Services
	repos      *mocks.MockRepositories
	mockExport *mocks.MockExportService
	admin      *models.User
	editor     *models.User
	viewer     *models.User
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, m := mocks.NewRepositories()
	services := service.NewServices(repos, config.Default(), zerolog.Nop())
	mockExport := mocks.NewMockExportService()
	services.Export = mockExport

	ctx := context.Background()
	if _, err := services.Category.InitializeDefaults(ctx); err != nil {
		t.Fatalf("Failed to initialize categories: %v", err)
	}

	env := &testEnv{services: services, repos: m, mockExport: mockExport}
	env.admin = createUser(t, services, "admin@example.com", models.RoleAdmin)
	env.editor = createUser(t, services, "editor@example.com", models.RoleEditor)
	env.viewer = createUser(t, services, "viewer@example.com", models.RoleViewer)

	env.router = api.NewRouter(services, config.Default(), zerolog.Nop())
	return env
}

func createUser(t *testing.T, services *service.Services, email string, role models.Role) *models.User {
	t.Helper()
	user, err := services.User.Create(context.Background(), &models.CreateUserInput{Email: email, Name: string(role), Role: role})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// do sends a request as user; a nil user sends no session headers
func (e *testEnv) do(method, url string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+testToken)
		req.Header.Set("X-User-ID", user.ID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createInsight(t *testing.T, title string, status models.InsightStatus) *models.Insight {
	t.Helper()
	insight, err := e.services.Insight.Create(context.Background(), &models.CreateInsightInput{
		Title:    title,
		Content:  "Some **markdown** content about " + title,
		Excerpt:  "An excerpt",
		Category: "Personal Growth",
		AuthorID: e.editor.ID,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("Failed to create insight: %v", err)
	}
	return insight
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", nil, nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "live-learn-hub-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	env.mockExport.Counts["users"] = 3
	env.mockExport.Counts["categories"] = 6
	env.mockExport.Counts["insights"] = 42

	w := env.do("GET", "/metrics", nil, nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	db := decode(t, w)["database"].(map[string]interface{})
	if db["insights"].(float64) != 42 {
		t.Errorf("Expected 42 insights, got %v", db["insights"])
	}
	if db["categories"].(float64) != 6 {
		t.Errorf("Expected 6 categories, got %v", db["categories"])
	}
}

func TestAuthentication(t *testing.T) {
	env := setupTestRouter(t)

	inactive := createUser(t, env.services, "gone@example.com", models.RoleEditor)
	active := false
	if _, err := env.services.User.Update(context.Background(), inactive.ID, &models.UpdateUserInput{Active: &active}); err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}

	tests := []struct {
		name           string
		auth           string
		userID         string
		expectedStatus int
	}{
		{"no headers", "", "", http.StatusUnauthorized},
		{"missing bearer scheme", testToken, env.editor.ID, http.StatusUnauthorized},
		{"malformed user id", "Bearer " + testToken, "not-a-uuid", http.StatusUnauthorized},
		{"wrong token prefix", "Bearer token_0123456789abcdef", env.editor.ID, http.StatusUnauthorized},
		{"token too short", "Bearer auth_short", env.editor.ID, http.StatusUnauthorized},
		{"unknown user", "Bearer " + testToken, "8b1f6a9e-4c4d-4a57-9a0e-2f4f3e0b7c11", http.StatusUnauthorized},
		{"inactive user", "Bearer " + testToken, inactive.ID, http.StatusUnauthorized},
		{"valid session", "Bearer " + testToken, env.editor.ID, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/insights", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRolePermissions(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name           string
		method         string
		url            string
		user           func() *models.User
		expectedStatus int
	}{
		{"viewer cannot create insight", "POST", "/v1/insights", func() *models.User { return env.viewer }, http.StatusForbidden},
		{"viewer cannot create category", "POST", "/v1/categories", func() *models.User { return env.viewer }, http.StatusForbidden},
		{"editor cannot administer users", "GET", "/v1/users?email=admin@example.com", func() *models.User { return env.editor }, http.StatusForbidden},
		{"editor cannot run maintenance", "POST", "/v1/maintenance/backfill-slugs", func() *models.User { return env.editor }, http.StatusForbidden},
		{"viewer can read stats", "GET", "/v1/insights/stats", func() *models.User { return env.viewer }, http.StatusOK},
		{"admin can look up users", "GET", "/v1/users?email=admin@example.com", func() *models.User { return env.admin }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.url, map[string]string{}, tt.user())
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateInsight(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/v1/insights", map[string]interface{}{
		"title":    "Finding Your Purpose",
		"content":  "Purpose is found in doing.",
		"excerpt":  "On purpose",
		"category": "Purpose",
		"tags":     []string{"purpose"},
	}, env.editor)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	response := decode(t, w)
	if response["slug"] != "finding-your-purpose" {
		t.Errorf("Expected slug 'finding-your-purpose', got %v", response["slug"])
	}
	if response["author_id"] != env.editor.ID {
		t.Errorf("Expected author to default to the session user, got %v", response["author_id"])
	}
	if response["status"] != string(models.StatusDraft) {
		t.Errorf("Expected draft status, got %v", response["status"])
	}
}

func TestCreateInsight_ValidationErrors(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing title",
			body:           map[string]interface{}{"content": "c", "excerpt": "e", "category": "Purpose"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "title is required",
		},
		{
			name:           "archived on create",
			body:           map[string]interface{}{"title": "t", "content": "c", "excerpt": "e", "category": "Purpose", "status": "archived"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid status",
		},
		{
			name:           "unknown category",
			body:           map[string]interface{}{"title": "t", "content": "c", "excerpt": "e", "category": "Astrology"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "category",
		},
		{
			name:           "unknown author",
			body:           map[string]interface{}{"title": "t", "content": "c", "excerpt": "e", "category": "Purpose", "author_id": "8b1f6a9e-4c4d-4a57-9a0e-2f4f3e0b7c11"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "author",
		},
		{
			name:           "bad featured image",
			body:           map[string]interface{}{"title": "t", "content": "c", "excerpt": "e", "category": "Purpose", "featured_image": "ftp://x"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "featured_image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/v1/insights", tt.body, env.editor)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedError != "" && !bytes.Contains(w.Body.Bytes(), []byte(tt.expectedError)) {
				t.Errorf("Expected error '%s' in response, got: %s", tt.expectedError, w.Body.String())
			}
		})
	}

	if len(env.repos.Insight.Insights) != 0 {
		t.Errorf("Expected no insights stored, got %d", len(env.repos.Insight.Insights))
	}
}

func TestGetInsight(t *testing.T) {
	env := setupTestRouter(t)
	insight := env.createInsight(t, "Morning Rituals", models.StatusDraft)

	w := env.do("GET", "/v1/insights/"+insight.ID, nil, env.viewer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	response := decode(t, w)
	if response["author_name"] != string(models.RoleEditor) {
		t.Errorf("Expected author name resolved from user, got %v", response["author_name"])
	}
	if response["author_email"] != env.editor.Email {
		t.Errorf("Expected author email, got %v", response["author_email"])
	}

	w = env.do("GET", "/v1/insights/8b1f6a9e-4c4d-4a57-9a0e-2f4f3e0b7c11", nil, env.viewer)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing insight, got %d", w.Code)
	}

	w = env.do("GET", "/v1/insights/not-a-uuid", nil, env.viewer)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for malformed id, got %d", w.Code)
	}
}

func TestUpdateInsight_Publish(t *testing.T) {
	env := setupTestRouter(t)
	insight := env.createInsight(t, "Quiet Leadership", models.StatusDraft)

	w := env.do("PATCH", "/v1/insights/"+insight.ID, map[string]interface{}{"status": "published"}, env.editor)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	response := decode(t, w)
	if response["status"] != "published" {
		t.Errorf("Expected published, got %v", response["status"])
	}
	if response["published_at"] == nil {
		t.Error("Expected published_at to be set")
	}

	w = env.do("PATCH", "/v1/insights/"+insight.ID, map[string]interface{}{"status": "deleted"}, env.editor)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid status, got %d", w.Code)
	}

	w = env.do("PATCH", "/v1/insights/8b1f6a9e-4c4d-4a57-9a0e-2f4f3e0b7c11", map[string]interface{}{"title": "x"}, env.editor)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing insight, got %d", w.Code)
	}
}

func TestDeleteInsight(t *testing.T) {
	env := setupTestRouter(t)
	insight := env.createInsight(t, "Letting Go", models.StatusDraft)

	w := env.do("DELETE", "/v1/insights/"+insight.ID, nil, env.editor)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if _, ok := env.repos.Insight.Insights[insight.ID]; ok {
		t.Error("Expected insight to be removed")
	}

	w = env.do("DELETE", "/v1/insights/"+insight.ID, nil, env.editor)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected deleting a missing insight to succeed, got %d", w.Code)
	}
}

func TestListInsights_Filters(t *testing.T) {
	env := setupTestRouter(t)
	env.createInsight(t, "First Draft", models.StatusDraft)
	env.createInsight(t, "Live One", models.StatusPublished)

	w := env.do("GET", "/v1/insights?status=published", nil, env.viewer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if count := decode(t, w)["count"].(float64); count != 1 {
		t.Errorf("Expected 1 published insight, got %v", count)
	}

	for _, url := range []string{"/v1/insights?status=pending", "/v1/insights?limit=0", "/v1/insights?limit=abc"} {
		w = env.do("GET", url, nil, env.viewer)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", url, w.Code)
		}
	}
}

func TestPublicInsights(t *testing.T) {
	env := setupTestRouter(t)
	published := env.createInsight(t, "Open Hearts", models.StatusPublished)
	draft := env.createInsight(t, "Closed Doors", models.StatusDraft)

	w := env.do("GET", "/v1/public/insights", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if count := decode(t, w)["count"].(float64); count != 1 {
		t.Errorf("Expected only published insights, got %v", count)
	}

	w = env.do("GET", "/v1/public/insights/"+published.Slug, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	html, _ := decode(t, w)["content_html"].(string)
	if !bytes.Contains([]byte(html), []byte("<strong>markdown</strong>")) {
		t.Errorf("Expected rendered markdown, got %q", html)
	}

	w = env.do("GET", "/v1/public/insights/"+draft.Slug, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected drafts to be hidden, got %d", w.Code)
	}
}

func TestPublicEvents(t *testing.T) {
	env := setupTestRouter(t)
	insight := env.createInsight(t, "Shared Wisdom", models.StatusPublished)

	for _, event := range []string{"view", "view", "share"} {
		w := env.do("POST", "/v1/public/events", map[string]string{"insight_id": insight.ID, "event": event}, nil)
		if w.Code != http.StatusAccepted {
			t.Fatalf("Expected status 202, got %d. Body: %s", w.Code, w.Body.String())
		}
	}

	stored := env.repos.Insight.Insights[insight.ID]
	if stored.ViewCount != 2 {
		t.Errorf("Expected 2 views, got %d", stored.ViewCount)
	}

	events := env.repos.Analytics.EventsFor(insight.ID)
	if len(events) != 3 {
		t.Fatalf("Expected 3 analytics events, got %d", len(events))
	}
	if events[0].IPAddress == "" {
		t.Error("Expected the client IP to be recorded")
	}

	w := env.do("GET", "/v1/insights/"+insight.ID+"/analytics", nil, env.viewer)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	counts := decode(t, w)["events"].(map[string]interface{})
	if counts["view"].(float64) != 2 || counts["share"].(float64) != 1 || counts["like"].(float64) != 0 {
		t.Errorf("Unexpected event counts: %v", counts)
	}

	w = env.do("POST", "/v1/public/events", map[string]string{"insight_id": insight.ID, "event": "click"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown event, got %d", w.Code)
	}
}

func TestCategories(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/v1/categories", map[string]string{"name": "Resilience", "color": "#112233"}, env.editor)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if slug := decode(t, w)["slug"]; slug != "resilience" {
		t.Errorf("Expected derived slug 'resilience', got %v", slug)
	}

	w = env.do("POST", "/v1/categories", map[string]string{"name": "Resilience Again", "slug": "resilience"}, env.editor)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate slug, got %d", w.Code)
	}

	w = env.do("PATCH", "/v1/categories/wellness", map[string]bool{"is_active": false}, env.editor)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = env.do("GET", "/v1/public/categories", nil, nil)
	categories := decode(t, w)["categories"].([]interface{})
	for _, raw := range categories {
		if raw.(map[string]interface{})["slug"] == "wellness" {
			t.Error("Expected deactivated category to be hidden from the public list")
		}
	}

	w = env.do("PATCH", "/v1/categories/unknown", map[string]bool{"is_active": true}, env.editor)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = env.do("POST", "/v1/categories/defaults", nil, env.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if count := decode(t, w)["count"].(float64); count != 0 {
		t.Errorf("Expected existing defaults to be skipped, got %v created", count)
	}
}

func TestUsers(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/v1/users", map[string]string{"email": "new@example.com", "name": "New Person"}, env.admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["role"] != string(models.RoleViewer) {
		t.Errorf("Expected default viewer role, got %v", created["role"])
	}

	w = env.do("POST", "/v1/users", map[string]string{"email": "new@example.com"}, env.admin)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate email, got %d", w.Code)
	}

	w = env.do("POST", "/v1/users", map[string]string{"email": "not-an-email"}, env.admin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid email, got %d", w.Code)
	}

	id := created["id"].(string)
	w = env.do("PATCH", "/v1/users/"+id, map[string]string{"role": "editor"}, env.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if role := decode(t, w)["role"]; role != string(models.RoleEditor) {
		t.Errorf("Expected editor role, got %v", role)
	}

	w = env.do("GET", "/v1/users?email=missing@example.com", nil, env.admin)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestMaintenanceRun_IdempotencyKey(t *testing.T) {
	env := setupTestRouter(t)
	legacy := env.createInsight(t, "Legacy Piece", models.StatusPublished)
	env.repos.Insight.Insights[legacy.ID].Slug = ""

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/v1/maintenance/backfill-slugs", nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		req.Header.Set("X-User-ID", env.admin.ID)
		req.Header.Set("Idempotency-Key", "backfill-once")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := send()
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	first := decode(t, w)
	if first["updated"].(float64) != 1 {
		t.Errorf("Expected 1 updated record, got %v", first["updated"])
	}

	w = send()
	second := decode(t, w)
	if second["run_id"] != first["run_id"] {
		t.Errorf("Expected the existing run for a repeated key, got %v and %v", first["run_id"], second["run_id"])
	}
	if len(env.repos.Maintenance.Runs) != 1 {
		t.Errorf("Expected a single recorded run, got %d", len(env.repos.Maintenance.Runs))
	}

	w = env.do("GET", "/v1/maintenance/runs/"+first["run_id"].(string), nil, env.admin)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = env.do("GET", "/v1/maintenance/runs/8b1f6a9e-4c4d-4a57-9a0e-2f4f3e0b7c11", nil, env.admin)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown run, got %d", w.Code)
	}
}

func TestMaintenanceSeed(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/v1/maintenance/seed", nil, env.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if inserted := decode(t, w)["insights_created"].(float64); inserted != 6 {
		t.Errorf("Expected 6 sample insights, got %v", inserted)
	}

	w = env.do("POST", "/v1/maintenance/seed", nil, env.admin)
	if inserted := decode(t, w)["insights_created"].(float64); inserted != 0 {
		t.Errorf("Expected a second seed to insert nothing, got %v", inserted)
	}
}

func TestExportStream(t *testing.T) {
	env := setupTestRouter(t)

	var gotFormat string
	env.mockExport.StreamInsightsFunc = func(ctx context.Context, w http.ResponseWriter, format string) error {
		gotFormat = format
		w.Write([]byte("{}\n"))
		return nil
	}

	w := env.do("GET", "/v1/insights/export", nil, env.viewer)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotFormat != "ndjson" {
		t.Errorf("Expected default ndjson format, got %q", gotFormat)
	}

	w = env.do("GET", "/v1/insights/export?format=csv", nil, env.viewer)
	if disposition := w.Header().Get("Content-Disposition"); disposition == "" {
		t.Error("Expected Content-Disposition header for csv export")
	}

	w = env.do("GET", "/v1/insights/export?format=xml", nil, env.viewer)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("format must be one of")) {
		t.Errorf("Expected format error, got: %s", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("OPTIONS", "/v1/insights", nil, nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for OPTIONS, got %d", w.Code)
	}

	allowOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if allowOrigin != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", allowOrigin)
	}

	allowHeaders := w.Header().Get("Access-Control-Allow-Headers")
	if !bytes.Contains([]byte(allowHeaders), []byte("X-User-ID")) {
		t.Errorf("Expected X-User-ID in allowed headers, got '%s'", allowHeaders)
	}
}
