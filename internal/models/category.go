package models

import "time"

// Category is a taxonomy entry. Slug is unique; categories are deactivated, never deleted.
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Color       string    `json:"color,omitempty" db:"color"`
	Active      bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCategoryInput is the payload for category creation
type CreateCategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// DefaultCategories are inserted by the seeding routine when missing
var DefaultCategories = []CreateCategoryInput{
	{Name: "Personal Growth", Slug: "personal-growth", Color: "#10B981"},
	{Name: "Wellness", Slug: "wellness", Color: "#8B5CF6"},
	{Name: "Leadership", Slug: "leadership", Color: "#F59E0B"},
	{Name: "Community", Slug: "community", Color: "#EF4444"},
	{Name: "Purpose", Slug: "purpose", Color: "#3B82F6"},
	{Name: "Mindset", Slug: "mindset", Color: "#EC4899"},
}
