package models

import (
	"time"
)

// InsightStatus is the publication state of an insight
type InsightStatus string

const (
	StatusDraft     InsightStatus = "draft"
	StatusPublished InsightStatus = "published"
	StatusArchived  InsightStatus = "archived"
)

// ValidStatuses defines allowed insight statuses
var ValidStatuses = map[InsightStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// Insight represents an editorial article.
// Slug is empty only for legacy rows that predate slugs.
type Insight struct {
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Slug          string        `json:"slug,omitempty" db:"slug"`
	Content       string        `json:"content" db:"content"`
	Excerpt       string        `json:"excerpt" db:"excerpt"`
	Category      string        `json:"category" db:"category"`
	Author        string        `json:"author" db:"author"`
	AuthorName    string        `json:"author_name,omitempty" db:"author_name"`
	AuthorBio     string        `json:"author_bio,omitempty" db:"author_bio"`
	AuthorID      string        `json:"author_id" db:"author_id"`
	ReadTime      string        `json:"read_time,omitempty" db:"read_time"`
	Status        InsightStatus `json:"status" db:"status"`
	FeaturedImage string        `json:"featured_image,omitempty" db:"featured_image"`
	Tags          []string      `json:"tags" db:"-"` // Stored as JSON in DB
	PublishedAt   *time.Time    `json:"published_at,omitempty" db:"published_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	ViewCount     int64         `json:"view_count" db:"view_count"`
}

// InsightView is an insight enriched with its resolved author
type InsightView struct {
	Insight
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email,omitempty"`
	ContentHTML string `json:"content_html,omitempty"`
}

// CreateInsightInput is the payload of the create operation
type CreateInsightInput struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Category      string        `json:"category"`
	AuthorID      string        `json:"author_id"`
	Status        InsightStatus `json:"status"`
	FeaturedImage string        `json:"featured_image"`
	Tags          []string      `json:"tags"`
	ReadTime      string        `json:"read_time"`
	AuthorBio     string        `json:"author_bio"`
}

// UpdateInsightInput is a partial update; nil fields are left untouched
type UpdateInsightInput struct {
	Title         *string        `json:"title"`
	Content       *string        `json:"content"`
	Excerpt       *string        `json:"excerpt"`
	Category      *string        `json:"category"`
	Status        *InsightStatus `json:"status"`
	FeaturedImage *string        `json:"featured_image"`
	Tags          *[]string      `json:"tags"`
	ReadTime      *string        `json:"read_time"`
	AuthorBio     *string        `json:"author_bio"`
}

// InsightPatch is the set of columns written by a single patch.
// Nil fields are not written.
type InsightPatch struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	Category      *string
	AuthorName    *string
	AuthorBio     *string
	ReadTime      *string
	Status        *InsightStatus
	FeaturedImage *string
	Tags          *[]string
	PublishedAt   *time.Time
	UpdatedAt     *time.Time
}

// IsEmpty reports whether the patch writes nothing
func (p *InsightPatch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Content == nil && p.Excerpt == nil &&
		p.Category == nil && p.AuthorName == nil && p.AuthorBio == nil && p.ReadTime == nil &&
		p.Status == nil && p.FeaturedImage == nil && p.Tags == nil && p.PublishedAt == nil &&
		p.UpdatedAt == nil
}

// Apply copies the patched fields onto an insight
func (p *InsightPatch) Apply(insight *Insight) {
	if p.Title != nil {
		insight.Title = *p.Title
	}
	if p.Slug != nil {
		insight.Slug = *p.Slug
	}
	if p.Content != nil {
		insight.Content = *p.Content
	}
	if p.Excerpt != nil {
		insight.Excerpt = *p.Excerpt
	}
	if p.Category != nil {
		insight.Category = *p.Category
	}
	if p.AuthorName != nil {
		insight.AuthorName = *p.AuthorName
	}
	if p.AuthorBio != nil {
		insight.AuthorBio = *p.AuthorBio
	}
	if p.ReadTime != nil {
		insight.ReadTime = *p.ReadTime
	}
	if p.Status != nil {
		insight.Status = *p.Status
	}
	if p.FeaturedImage != nil {
		insight.FeaturedImage = *p.FeaturedImage
	}
	if p.Tags != nil {
		insight.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		insight.PublishedAt = &t
	}
	if p.UpdatedAt != nil {
		insight.UpdatedAt = *p.UpdatedAt
	}
}

// InsightFilter narrows a list query
type InsightFilter struct {
	Status   InsightStatus
	Category string
	Limit    int
}

// InsightStats summarises the insight collection
type InsightStats struct {
	Total      int   `json:"total"`
	Published  int   `json:"published"`
	Draft      int   `json:"draft"`
	Archived   int   `json:"archived"`
	ThisMonth  int   `json:"this_month"`
	Categories int   `json:"categories"`
	TotalViews int64 `json:"total_views"`
}
