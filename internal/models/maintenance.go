package models

import (
	"time"
)

// RunStatus represents the status of a maintenance run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunKind names a maintenance pass
type RunKind string

const (
	RunKindBackfillSlugs        RunKind = "backfill-slugs"
	RunKindRecalculateReadTimes RunKind = "recalculate-read-times"
	RunKindMigrateLegacyFields  RunKind = "migrate-legacy-fields"
)

// ValidRunKinds defines the passes that can be started
var ValidRunKinds = map[RunKind]bool{
	RunKindBackfillSlugs:        true,
	RunKindRecalculateReadTimes: true,
	RunKindMigrateLegacyFields:  true,
}

// OutcomeResult is what a maintenance pass did to one record
type OutcomeResult string

const (
	OutcomeUpdated   OutcomeResult = "updated"
	OutcomeUnchanged OutcomeResult = "unchanged"
	OutcomeFailed    OutcomeResult = "failed"
)

// MaintenanceRun records one synchronous batch pass over the insights
type MaintenanceRun struct {
	ID             string     `json:"run_id" db:"id"`
	Kind           RunKind    `json:"kind" db:"kind"`
	Status         RunStatus  `json:"status" db:"status"`
	IdempotencyKey string     `json:"idempotency_key,omitempty" db:"idempotency_key"`
	TotalRecords   int        `json:"total_records" db:"total_records"`
	UpdatedCount   int        `json:"updated" db:"updated_count"`
	UnchangedCount int        `json:"unchanged" db:"unchanged_count"`
	FailedCount    int        `json:"failed" db:"failed_count"`
	DurationMs     int64      `json:"duration_ms" db:"duration_ms"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RecordOutcome is the per-record result of a maintenance pass
type RecordOutcome struct {
	InsightID string        `json:"insight_id"`
	Result    OutcomeResult `json:"result"`
	Previous  string        `json:"previous,omitempty"`
	Current   string        `json:"current,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// Record adds an outcome to the run counters
func (r *MaintenanceRun) Record(outcome RecordOutcome) {
	r.TotalRecords++
	switch outcome.Result {
	case OutcomeUpdated:
		r.UpdatedCount++
	case OutcomeUnchanged:
		r.UnchangedCount++
	case OutcomeFailed:
		r.FailedCount++
	}
}

// RunResponse is the API response for a maintenance run
type RunResponse struct {
	MaintenanceRun
	Outcomes []RecordOutcome `json:"outcomes"`
}

// SeedResult summarises a seeding pass
type SeedResult struct {
	AdminUserID       string   `json:"admin_user_id"`
	AdminCreated      bool     `json:"admin_created"`
	CategoriesCreated []string `json:"categories_created"`
	InsightsCreated   int      `json:"insights_created"`
	InsightsSkipped   []string `json:"insights_skipped"`
}
