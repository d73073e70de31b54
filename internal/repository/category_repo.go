package repository

import (
	"context"
	"database/sql"

	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
)

const categoryColumns = `id, name, slug, description, color, is_active, created_at, updated_at`

type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// Create inserts a new category. A taken slug yields ErrDuplicate.
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, color, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Slug, nullString(category.Description),
		nullString(category.Color), category.Active, category.CreatedAt, category.UpdatedAt,
	)
	return translateWriteError(err)
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories SET name = $1, description = $2, color = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		category.Name, nullString(category.Description), nullString(category.Color),
		category.Active, category.UpdatedAt, category.ID,
	)
	return err
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)

	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return category, err
}

func (r *categoryRepo) List(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// ActiveNameExists checks whether an active category carries the given display name
func (r *categoryRepo) ActiveNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND is_active)", name,
	).Scan(&exists)
	return exists, err
}

func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var category models.Category
	var description, color sql.NullString

	err := row.Scan(
		&category.ID, &category.Name, &category.Slug, &description, &color,
		&category.Active, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Description = description.String
	category.Color = color.String
	return &category, nil
}
