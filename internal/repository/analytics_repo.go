package repository

import (
	"context"

	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
)

// analyticsRepo is the concrete implementation of AnalyticsRepository
type analyticsRepo struct {
	db *database.DB
}

// NewAnalyticsRepo creates a new analytics repository
func NewAnalyticsRepo(db *database.DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

// Create appends an event to the log
func (r *analyticsRepo) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics (id, insight_id, event, occurred_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.InsightID, event.Event, event.Timestamp,
		nullString(event.UserAgent), nullString(event.IPAddress),
	)
	return err
}

// CountByInsight returns the number of events per type for one insight
func (r *analyticsRepo) CountByInsight(ctx context.Context, insightID string) (map[models.EventType]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT event, COUNT(*) FROM analytics WHERE insight_id = $1 GROUP BY event", insightID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.EventType]int)
	for rows.Next() {
		var event models.EventType
		var count int
		if err := rows.Scan(&event, &count); err != nil {
			return nil, err
		}
		counts[event] = count
	}
	return counts, rows.Err()
}
