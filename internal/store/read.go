package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/firmo/internal/result"
)

// ErrRunNotFound is returned when a run ID has no stored row.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one stored run, as listed by history queries.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Counts    result.Counts
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, started_at, duration_ms, total, passed, failed, errored, skipped, pending
		FROM runs
		ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return records, nil
}

// GetRun returns one stored run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, duration_ms, total, passed, failed, errored, skipped, pending
		FROM runs
		WHERE id = ?
	`, runID)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run: %w", err)
	}
	return rec, nil
}

// RunOutcomes returns the stored case outcomes of a run in execution order.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]result.Outcome, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT suite, name, status, duration_ms, reason,
		       failure_message, failure_expected, failure_actual
		FROM case_outcomes
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []result.Outcome
	for rows.Next() {
		var (
			suiteJSON, name, status, reason string
			durationMS                      int64
			msg, expected, actual           string
		)
		if err := rows.Scan(&suiteJSON, &name, &status, &durationMS, &reason,
			&msg, &expected, &actual); err != nil {
			return nil, fmt.Errorf("run outcomes: %w", err)
		}

		var suite []string
		if err := json.Unmarshal([]byte(suiteJSON), &suite); err != nil {
			return nil, fmt.Errorf("run outcomes: suite path: %w", err)
		}

		o := result.Outcome{
			SuitePath: suite,
			Name:      name,
			Status:    result.Status(status),
			Duration:  time.Duration(durationMS) * time.Millisecond,
			Reason:    reason,
		}
		if msg != "" || expected != "" || actual != "" {
			o.Failure = &result.FailureDetail{
				Message:  msg,
				Expected: expected,
				Actual:   actual,
			}
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run outcomes: %w", err)
	}
	return outcomes, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec        RunRecord
		startedAt  string
		durationMS int64
	)
	err := row.Scan(&rec.ID, &startedAt, &durationMS,
		&rec.Counts.Total, &rec.Counts.Passed, &rec.Counts.Failed,
		&rec.Counts.Errored, &rec.Counts.Skipped, &rec.Counts.Pending)
	if err != nil {
		return RunRecord{}, err
	}

	rec.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse started_at: %w", err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}
