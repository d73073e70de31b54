package repository

import (
	"database/sql"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/live-learn-hub-api/internal/models"
)

func TestBuildPatchQuery_Placeholders(t *testing.T) {
	title := "New title"
	status := models.StatusPublished
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	query, args, err := buildPatchQuery("insight-1", &models.InsightPatch{
		Title:     &title,
		Status:    &status,
		UpdatedAt: &now,
	})
	if err != nil {
		t.Fatalf("buildPatchQuery failed: %v", err)
	}

	want := "UPDATE insights SET title = $1, status = $2, updated_at = $3 WHERE id = $4"
	if query != want {
		t.Errorf("Expected %q, got %q", want, query)
	}
	wantArgs := []interface{}{title, status, now, "insight-1"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("Expected args %v, got %v", wantArgs, args)
	}
}

func TestBuildPatchQuery_AllFields(t *testing.T) {
	text := "value"
	empty := ""
	status := models.StatusDraft
	tags := []string{"growth", "mindset"}
	now := time.Now().UTC()

	query, args, err := buildPatchQuery("insight-2", &models.InsightPatch{
		Title:         &text,
		Slug:          &empty,
		Content:       &text,
		Excerpt:       &text,
		Category:      &text,
		AuthorName:    &text,
		AuthorBio:     &text,
		ReadTime:      &text,
		Status:        &status,
		FeaturedImage: &text,
		Tags:          &tags,
		PublishedAt:   &now,
		UpdatedAt:     &now,
	})
	if err != nil {
		t.Fatalf("buildPatchQuery failed: %v", err)
	}

	columns := []string{"title", "slug", "content", "excerpt", "category", "author_name", "author_bio",
		"read_time", "status", "featured_image", "tags", "published_at", "updated_at"}
	if len(args) != len(columns)+1 {
		t.Fatalf("Expected %d args, got %d", len(columns)+1, len(args))
	}
	for i, column := range columns {
		clause := column + " = $" + strconv.Itoa(i+1) + sep(i, len(columns))
		if !strings.Contains(query, clause) {
			t.Errorf("Expected clause %q in %q", clause, query)
		}
	}
	if !strings.HasSuffix(query, "WHERE id = $14") {
		t.Errorf("Expected id bound last, got %q", query)
	}
	if args[13] != "insight-2" {
		t.Errorf("Expected id as final arg, got %v", args[13])
	}

	if slug, ok := args[1].(sql.NullString); !ok || slug.Valid {
		t.Errorf("Expected empty slug stored as NULL, got %#v", args[1])
	}
	if args[10] != `["growth","mindset"]` {
		t.Errorf("Expected tags as JSON, got %v", args[10])
	}
}

func TestBuildListQuery(t *testing.T) {
	base := "SELECT " + insightColumns + " FROM insights"

	tests := []struct {
		name      string
		filter    models.InsightFilter
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no filter",
			filter:    models.InsightFilter{},
			wantQuery: base + " ORDER BY created_at DESC, id",
		},
		{
			name:      "limit only",
			filter:    models.InsightFilter{Limit: 10},
			wantQuery: base + " ORDER BY created_at DESC, id LIMIT $1",
			wantArgs:  []interface{}{10},
		},
		{
			name:      "category and limit",
			filter:    models.InsightFilter{Category: "Mindset", Limit: 5},
			wantQuery: base + " WHERE category = $1 ORDER BY created_at DESC, id LIMIT $2",
			wantArgs:  []interface{}{"Mindset", 5},
		},
		{
			name:      "status category and limit",
			filter:    models.InsightFilter{Status: models.StatusPublished, Category: "Mindset", Limit: 3},
			wantQuery: base + " WHERE status = $1 AND category = $2 ORDER BY created_at DESC, id LIMIT $3",
			wantArgs:  []interface{}{models.StatusPublished, "Mindset", 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)
			if query != tt.wantQuery {
				t.Errorf("Expected %q, got %q", tt.wantQuery, query)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Expected %d args, got %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("Arg %d: expected %v, got %v", i+1, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestStatsQuery_MonthWindow(t *testing.T) {
	if !strings.Contains(statsQuery, "created_at >= $1 AND created_at < $2") {
		t.Errorf("Expected a half-open month window on $1 and $2, got %q", statsQuery)
	}
	if strings.Contains(statsQuery, "$3") {
		t.Errorf("Expected only two placeholders, got %q", statsQuery)
	}
	for _, status := range []models.InsightStatus{models.StatusPublished, models.StatusDraft, models.StatusArchived} {
		if !strings.Contains(statsQuery, "status = '"+string(status)+"'") {
			t.Errorf("Expected a count for status %q", status)
		}
	}
}

// sep is the text that follows clause i in the SET list
func sep(i, n int) string {
	if i == n-1 {
		return " WHERE"
	}
	return ","
}
