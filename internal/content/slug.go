// Package content holds the pure derivations applied to insight text:
// slug generation and read-time estimation.
package content

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lower-cases title, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func GenerateSlug(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// SlugTaken reports whether a slug is already taken.
type SlugTaken func(ctx context.Context, slug string) (bool, error)

// AllocateUniqueSlug returns the first candidate among base, base-1, base-2, ...
// that taken reports as free. It does not reserve the slug: a concurrent
// writer may take it between the check and the insert.
func AllocateUniqueSlug(ctx context.Context, title string, taken SlugTaken) (string, error) {
	base := GenerateSlug(title)
	candidate := base

	for counter := 1; ; counter++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
	}
}
