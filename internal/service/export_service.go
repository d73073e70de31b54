package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamInsights streams every insight in the specified format
func (s *exportService) StreamInsights(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting insights export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	case "json":
		return s.streamJSON(ctx, w)
	case "csv":
		return s.streamCSV(ctx, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=insights.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Insight.StreamAll(ctx, func(insight *models.Insight) error {
		data, err := json.Marshal(insight)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Insights export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=insights.json")

	w.Write([]byte("["))
	first := true

	err := s.repos.Insight.StreamAll(ctx, func(insight *models.Insight) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(insight)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=insights.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{
		"id", "slug", "title", "category", "author", "author_id", "status",
		"read_time", "tags", "view_count", "published_at", "created_at", "updated_at",
	})

	return s.repos.Insight.StreamAll(ctx, func(insight *models.Insight) error {
		publishedAt := ""
		if insight.PublishedAt != nil {
			publishedAt = insight.PublishedAt.UTC().Format(time.RFC3339)
		}
		return writer.Write([]string{
			insight.ID,
			insight.Slug,
			insight.Title,
			insight.Category,
			insight.Author,
			insight.AuthorID,
			string(insight.Status),
			insight.ReadTime,
			strings.Join(insight.Tags, "|"),
			strconv.FormatInt(insight.ViewCount, 10),
			publishedAt,
			insight.CreatedAt.UTC().Format(time.RFC3339),
			insight.UpdatedAt.UTC().Format(time.RFC3339),
		})
	})
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "users":
		return s.repos.User.Count(ctx)
	case "categories":
		return s.repos.Category.Count(ctx)
	case "insights":
		return s.repos.Insight.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
