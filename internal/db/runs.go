// Package db - runs.go records the generation run audit trail.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one generation request as recorded in the audit trail.
type Run struct {
	ID               uuid.UUID  `json:"id"`
	ProfileKey       string     `json:"profile_key"`
	JobSource        string     `json:"job_source"`
	Model            string     `json:"model"`
	Status           string     `json:"status"`
	Fallback         bool       `json:"fallback"`
	MergeStrategy    string     `json:"merge_strategy,omitempty"`
	Years            int        `json:"years"`
	PromptTokens     int        `json:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens"`
	TotalTokens      int        `json:"total_tokens"`
	Error            string     `json:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// RunOutcome carries the fields recorded when a run finishes.
type RunOutcome struct {
	Status           string
	Fallback         bool
	MergeStrategy    string
	Years            int
	PromptTokens     int32
	CompletionTokens int32
	TotalTokens      int32
	Error            string
}

// CreateRun records the start of a generation request and returns its ID.
// jobSource is either the posting URL or "inline" for pasted descriptions.
func (db *DB) CreateRun(ctx context.Context, profileKey, jobSource, model string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generation_runs (profile_key, job_source, model, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		profileKey, jobSource, model, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun records the outcome of a generation run.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, outcome RunOutcome) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs
		 SET status = $1, fallback = $2, merge_strategy = NULLIF($3, ''),
		     years = $4, prompt_tokens = $5, completion_tokens = $6,
		     total_tokens = $7, error = NULLIF($8, ''), completed_at = NOW()
		 WHERE id = $9`,
		outcome.Status, outcome.Fallback, outcome.MergeStrategy,
		outcome.Years, outcome.PromptTokens, outcome.CompletionTokens,
		outcome.TotalTokens, outcome.Error, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a generation run by ID. Returns (nil, nil) when absent.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_key, job_source, model, status, fallback,
		        COALESCE(merge_strategy, ''), COALESCE(years, 0),
		        COALESCE(prompt_tokens, 0), COALESCE(completion_tokens, 0),
		        COALESCE(total_tokens, 0),
		        COALESCE(error, ''), created_at, completed_at
		 FROM generation_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.ProfileKey, &run.JobSource, &run.Model, &run.Status,
		&run.Fallback, &run.MergeStrategy, &run.Years, &run.PromptTokens,
		&run.CompletionTokens, &run.TotalTokens, &run.Error, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent generation runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_key, job_source, model, status, fallback,
		        COALESCE(merge_strategy, ''), COALESCE(years, 0),
		        COALESCE(prompt_tokens, 0), COALESCE(completion_tokens, 0),
		        COALESCE(total_tokens, 0),
		        COALESCE(error, ''), created_at, completed_at
		 FROM generation_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ProfileKey, &run.JobSource, &run.Model,
			&run.Status, &run.Fallback, &run.MergeStrategy, &run.Years,
			&run.PromptTokens, &run.CompletionTokens, &run.TotalTokens,
			&run.Error, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
