package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/content"
	"github.com/live-learn-hub-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidateCreateInsight checks the fields the lifecycle manager expects to be present
func ValidateCreateInsight(in *models.CreateInsightInput) []apperr.FieldError {
	var errors []apperr.FieldError

	errors = title(errors, in.Title)
	errors = required(errors, "content", in.Content)
	errors = required(errors, "excerpt", in.Excerpt)
	errors = required(errors, "category", in.Category)

	// Validate author_id
	if in.AuthorID == "" {
		errors = append(errors, apperr.FieldError{Field: "author_id", Message: "author_id is required"})
	} else if !IsValidUUID(in.AuthorID) {
		errors = append(errors, apperr.FieldError{Field: "author_id", Message: "invalid UUID format", Value: in.AuthorID})
	}

	// New insights start as drafts or go straight to published
	if in.Status != "" && in.Status != models.StatusDraft && in.Status != models.StatusPublished {
		errors = append(errors, apperr.FieldError{
			Field:   "status",
			Message: "invalid status, must be one of: draft, published",
			Value:   in.Status,
		})
	}

	errors = featuredImage(errors, in.FeaturedImage)
	errors = tags(errors, in.Tags)

	return errors
}

// ValidateUpdateInsight checks a partial update. Supplied text fields may not be blank.
func ValidateUpdateInsight(in *models.UpdateInsightInput) []apperr.FieldError {
	var errors []apperr.FieldError

	if in.Title != nil {
		errors = title(errors, *in.Title)
	}
	if in.Content != nil {
		errors = required(errors, "content", *in.Content)
	}
	if in.Excerpt != nil {
		errors = required(errors, "excerpt", *in.Excerpt)
	}
	if in.Category != nil {
		errors = required(errors, "category", *in.Category)
	}
	if in.Status != nil && !models.ValidStatuses[*in.Status] {
		errors = append(errors, apperr.FieldError{
			Field:   "status",
			Message: "invalid status, must be one of: draft, published, archived",
			Value:   *in.Status,
		})
	}
	if in.FeaturedImage != nil {
		errors = featuredImage(errors, *in.FeaturedImage)
	}
	if in.Tags != nil {
		errors = tags(errors, *in.Tags)
	}

	return errors
}

// ValidateCreateUser validates a registration payload
func ValidateCreateUser(in *models.CreateUserInput) []apperr.FieldError {
	var errors []apperr.FieldError

	if in.Email == "" {
		errors = append(errors, apperr.FieldError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(in.Email) {
		errors = append(errors, apperr.FieldError{Field: "email", Message: "invalid email format", Value: in.Email})
	}

	if in.Role != "" && !models.ValidRoles[in.Role] {
		errors = append(errors, apperr.FieldError{
			Field:   "role",
			Message: "invalid role, must be one of: admin, editor, viewer",
			Value:   in.Role,
		})
	}

	return errors
}

// ValidateUpdateUser validates a partial user update
func ValidateUpdateUser(in *models.UpdateUserInput) []apperr.FieldError {
	var errors []apperr.FieldError

	if in.Role != nil && !models.ValidRoles[*in.Role] {
		errors = append(errors, apperr.FieldError{
			Field:   "role",
			Message: "invalid role, must be one of: admin, editor, viewer",
			Value:   *in.Role,
		})
	}

	return errors
}

// ValidateCategory validates a category payload. An empty slug is derived from the name later.
func ValidateCategory(in *models.CreateCategoryInput) []apperr.FieldError {
	var errors []apperr.FieldError

	errors = required(errors, "name", in.Name)

	if in.Slug != "" && !slugRegex.MatchString(in.Slug) {
		errors = append(errors, apperr.FieldError{
			Field:   "slug",
			Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)",
			Value:   in.Slug,
		})
	}

	if in.Color != "" && !colorRegex.MatchString(in.Color) {
		errors = append(errors, apperr.FieldError{Field: "color", Message: "color must be a #RRGGBB hex value", Value: in.Color})
	}

	return errors
}

// ValidateEvent validates a public analytics event
func ValidateEvent(in *models.EventRequest) []apperr.FieldError {
	var errors []apperr.FieldError

	if in.InsightID == "" {
		errors = append(errors, apperr.FieldError{Field: "insight_id", Message: "insight_id is required"})
	} else if !IsValidUUID(in.InsightID) {
		errors = append(errors, apperr.FieldError{Field: "insight_id", Message: "invalid UUID format", Value: in.InsightID})
	}

	if !models.ValidEvents[in.Event] {
		errors = append(errors, apperr.FieldError{
			Field:   "event",
			Message: "invalid event, must be one of: view, share, like",
			Value:   in.Event,
		})
	}

	return errors
}

// IsValidSlug checks kebab-case
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func required(errors []apperr.FieldError, field, value string) []apperr.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errors, apperr.FieldError{Field: field, Message: field + " is required"})
	}
	return errors
}

// title requires a value that yields a non-empty slug
func title(errors []apperr.FieldError, value string) []apperr.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(errors, apperr.FieldError{Field: "title", Message: "title is required"})
	}
	if content.GenerateSlug(value) == "" {
		return append(errors, apperr.FieldError{
			Field:   "title",
			Message: "title must contain at least one letter or digit (a-z, 0-9)",
			Value:   value,
		})
	}
	return errors
}

func featuredImage(errors []apperr.FieldError, raw string) []apperr.FieldError {
	if raw == "" {
		return errors
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return append(errors, apperr.FieldError{Field: "featured_image", Message: "featured_image must be an http(s) URL", Value: raw})
	}
	return errors
}

func tags(errors []apperr.FieldError, values []string) []apperr.FieldError {
	for _, tag := range values {
		if strings.TrimSpace(tag) == "" {
			return append(errors, apperr.FieldError{Field: "tags", Message: "tags must not contain empty values"})
		}
	}
	return errors
}
