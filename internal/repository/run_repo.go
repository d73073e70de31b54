package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
)

const runColumns = `id, kind, status, idempotency_key, total_records, updated_count,
	unchanged_count, failed_count, duration_ms, created_at, completed_at`

// maintenanceRunRepo is the concrete implementation of MaintenanceRunRepository
type maintenanceRunRepo struct {
	db *database.DB
}

// NewMaintenanceRunRepo creates a new maintenance run repository
func NewMaintenanceRunRepo(db *database.DB) MaintenanceRunRepository {
	return &maintenanceRunRepo{db: db}
}

// Create inserts a new run. A reused idempotency key yields ErrDuplicate.
func (r *maintenanceRunRepo) Create(ctx context.Context, run *models.MaintenanceRun) error {
	query := `
		INSERT INTO maintenance_runs (id, kind, status, idempotency_key, total_records,
			updated_count, unchanged_count, failed_count, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Kind, run.Status, nullString(run.IdempotencyKey), run.TotalRecords,
		run.UpdatedCount, run.UnchangedCount, run.FailedCount, run.DurationMs, run.CreatedAt,
	)
	return translateWriteError(err)
}

// Update updates run status and counters
func (r *maintenanceRunRepo) Update(ctx context.Context, run *models.MaintenanceRun) error {
	query := `
		UPDATE maintenance_runs SET
			status = $1, total_records = $2, updated_count = $3, unchanged_count = $4,
			failed_count = $5, duration_ms = $6, completed_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		run.Status, run.TotalRecords, run.UpdatedCount, run.UnchangedCount,
		run.FailedCount, run.DurationMs, run.CompletedAt, run.ID,
	)
	return err
}

// GetByID retrieves a run by ID
func (r *maintenanceRunRepo) GetByID(ctx context.Context, id string) (*models.MaintenanceRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM maintenance_runs WHERE id = $1`, id)
}

// GetByIdempotencyKey retrieves a run by idempotency key
func (r *maintenanceRunRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.MaintenanceRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM maintenance_runs WHERE idempotency_key = $1`, key)
}

func (r *maintenanceRunRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.MaintenanceRun, error) {
	var run models.MaintenanceRun
	var idempotencyKey sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&run.ID, &run.Kind, &run.Status, &idempotencyKey, &run.TotalRecords,
		&run.UpdatedCount, &run.UnchangedCount, &run.FailedCount, &run.DurationMs,
		&run.CreatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.IdempotencyKey = idempotencyKey.String
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

// AddOutcomes batch inserts per-record outcomes using COPY
func (r *maintenanceRunRepo) AddOutcomes(ctx context.Context, runID string, outcomes []models.RecordOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("maintenance_outcomes",
		"run_id", "insight_id", "result", "previous_value", "current_value", "message",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			runID, o.InsightID, o.Result,
			nullString(o.Previous), nullString(o.Current), nullString(o.Message),
		)
		if err != nil {
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetOutcomes retrieves outcomes for a run in insertion order.
// A limit of zero returns all of them.
func (r *maintenanceRunRepo) GetOutcomes(ctx context.Context, runID string, limit int) ([]models.RecordOutcome, error) {
	query := `
		SELECT insight_id, result, previous_value, current_value, message
		FROM maintenance_outcomes WHERE run_id = $1 ORDER BY id
	`
	args := []interface{}{runID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]models.RecordOutcome, 0)
	for rows.Next() {
		var o models.RecordOutcome
		var previous, current, message sql.NullString
		if err := rows.Scan(&o.InsightID, &o.Result, &previous, &current, &message); err != nil {
			return nil, err
		}
		o.Previous = previous.String
		o.Current = current.String
		o.Message = message.String
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}
