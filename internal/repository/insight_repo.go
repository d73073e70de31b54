package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
)

const insightColumns = `id, title, slug, content, excerpt, category, author, author_name, author_bio,
	author_id, read_time, status, featured_image, tags, published_at, created_at, updated_at, view_count`

// insightRepo is the concrete implementation of InsightRepository
type insightRepo struct {
	db *database.DB
}

// NewInsightRepo creates a new insight repository
func NewInsightRepo(db *database.DB) InsightRepository {
	return &insightRepo{db: db}
}

// Create inserts a new insight. A taken slug yields ErrDuplicate.
func (r *insightRepo) Create(ctx context.Context, insight *models.Insight) error {
	tagsJSON, err := marshalTags(insight.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO insights (id, title, slug, content, excerpt, category, author, author_name, author_bio,
			author_id, read_time, status, featured_image, tags, published_at, created_at, updated_at, view_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = r.db.ExecContext(ctx, query,
		insight.ID, insight.Title, nullString(insight.Slug), insight.Content, insight.Excerpt,
		insight.Category, insight.Author, nullString(insight.AuthorName), nullString(insight.AuthorBio),
		insight.AuthorID, nullString(insight.ReadTime), insight.Status, nullString(insight.FeaturedImage),
		tagsJSON, insight.PublishedAt, insight.CreatedAt, insight.UpdatedAt, insight.ViewCount,
	)
	return translateWriteError(err)
}

// Patch writes only the non-nil fields of patch in a single statement
func (r *insightRepo) Patch(ctx context.Context, id string, patch *models.InsightPatch) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	query, args, err := buildPatchQuery(id, patch)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return translateWriteError(err)
}

// buildPatchQuery numbers one placeholder per non-nil field; the id comes last
func buildPatchQuery(id string, patch *models.InsightPatch) (string, []interface{}, error) {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Slug != nil {
		set("slug", nullString(*patch.Slug))
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		set("excerpt", *patch.Excerpt)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.AuthorName != nil {
		set("author_name", nullString(*patch.AuthorName))
	}
	if patch.AuthorBio != nil {
		set("author_bio", nullString(*patch.AuthorBio))
	}
	if patch.ReadTime != nil {
		set("read_time", nullString(*patch.ReadTime))
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.FeaturedImage != nil {
		set("featured_image", nullString(*patch.FeaturedImage))
	}
	if patch.Tags != nil {
		tagsJSON, err := marshalTags(*patch.Tags)
		if err != nil {
			return "", nil, err
		}
		set("tags", tagsJSON)
	}
	if patch.PublishedAt != nil {
		set("published_at", *patch.PublishedAt)
	}
	if patch.UpdatedAt != nil {
		set("updated_at", *patch.UpdatedAt)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE insights SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, nil
}

// Delete removes an insight. Analytics rows are left in place.
func (r *insightRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM insights WHERE id = $1", id)
	return err
}

// GetByID retrieves an insight by ID
func (r *insightRepo) GetByID(ctx context.Context, id string) (*models.Insight, error) {
	return r.getOne(ctx, `SELECT `+insightColumns+` FROM insights WHERE id = $1`, id)
}

// GetBySlug retrieves an insight by slug
func (r *insightRepo) GetBySlug(ctx context.Context, slug string) (*models.Insight, error) {
	return r.getOne(ctx, `SELECT `+insightColumns+` FROM insights WHERE slug = $1`, slug)
}

func (r *insightRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Insight, error) {
	insight, err := scanInsight(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return insight, err
}

// SlugExists checks if an insight with the given slug exists
func (r *insightRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM insights WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// List returns insights newest first. Filters apply before the limit.
func (r *insightRepo) List(ctx context.Context, filter models.InsightFilter) ([]*models.Insight, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := make([]*models.Insight, 0)
	for rows.Next() {
		insight, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		insights = append(insights, insight)
	}
	return insights, rows.Err()
}

// buildListQuery places the status and category filters ahead of the LIMIT
func buildListQuery(filter models.InsightFilter) (string, []interface{}) {
	var where []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + insightColumns + ` FROM insights`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

// IncrementViewCount atomically bumps the counter.
// It reports false when no insight has the given ID.
func (r *insightRepo) IncrementViewCount(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE insights SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// statsQuery binds $1 and $2 to the month window
const statsQuery = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'published'),
		COUNT(*) FILTER (WHERE status = 'draft'),
		COUNT(*) FILTER (WHERE status = 'archived'),
		COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
		COUNT(DISTINCT category),
		COALESCE(SUM(view_count), 0)
	FROM insights
`

// Stats aggregates the collection in one pass.
// ThisMonth counts rows created in [monthStart, monthEnd).
func (r *insightRepo) Stats(ctx context.Context, monthStart, monthEnd time.Time) (*models.InsightStats, error) {
	var stats models.InsightStats
	err := r.db.QueryRowContext(ctx, statsQuery, monthStart, monthEnd).Scan(
		&stats.Total, &stats.Published, &stats.Draft, &stats.Archived,
		&stats.ThisMonth, &stats.Categories, &stats.TotalViews,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Count returns the total number of insights
func (r *insightRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM insights").Scan(&count)
	return count, err
}

// StreamAll streams every insight, oldest first
func (r *insightRepo) StreamAll(ctx context.Context, callback func(*models.Insight) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+insightColumns+` FROM insights ORDER BY created_at, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		insight, err := scanInsight(rows)
		if err != nil {
			return err
		}
		if err := callback(insight); err != nil {
			return err
		}
	}

	return rows.Err()
}

func scanInsight(row rowScanner) (*models.Insight, error) {
	var insight models.Insight
	var slug, authorName, authorBio, readTime, featuredImage sql.NullString
	var tagsJSON []byte
	var publishedAt sql.NullTime

	err := row.Scan(
		&insight.ID, &insight.Title, &slug, &insight.Content, &insight.Excerpt, &insight.Category,
		&insight.Author, &authorName, &authorBio, &insight.AuthorID, &readTime, &insight.Status,
		&featuredImage, &tagsJSON, &publishedAt, &insight.CreatedAt, &insight.UpdatedAt, &insight.ViewCount,
	)
	if err != nil {
		return nil, err
	}

	insight.Slug = slug.String
	insight.AuthorName = authorName.String
	insight.AuthorBio = authorBio.String
	insight.ReadTime = readTime.String
	insight.FeaturedImage = featuredImage.String
	if publishedAt.Valid {
		insight.PublishedAt = &publishedAt.Time
	}

	insight.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &insight.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for insight %s: %w", insight.ID, err)
		}
	}

	return &insight, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
