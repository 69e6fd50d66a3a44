package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/firmo/internal/report"
	"github.com/roach88/firmo/internal/result"
)

// WriteRun persists a completed run summary and its case outcomes in one
// transaction. Implements result.Sink.
//
// Uses ON CONFLICT DO NOTHING for idempotency: writing the same run twice
// (same run ID) is silently ignored, so a retried flush cannot duplicate
// history.
func (s *Store) WriteRun(ctx context.Context, summary result.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, duration_ms, total, passed, failed, errored, skipped, pending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		summary.RunID,
		summary.StartedAt.UTC().Format(time.RFC3339),
		summary.Duration.Milliseconds(),
		summary.Counts.Total,
		summary.Counts.Passed,
		summary.Counts.Failed,
		summary.Counts.Errored,
		summary.Counts.Skipped,
		summary.Counts.Pending,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for seq, o := range summary.Outcomes {
		suiteJSON, err := marshalSuitePath(o.SuitePath)
		if err != nil {
			return fmt.Errorf("write run: outcome %d: %w", seq, err)
		}

		var msg, expected, actual string
		if o.Failure != nil {
			msg = o.Failure.Message
			expected = o.Failure.Expected
			actual = o.Failure.Actual
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO case_outcomes
			(run_id, seq, suite, name, status, duration_ms, reason,
			 failure_message, failure_expected, failure_actual)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seq) DO NOTHING
		`,
			summary.RunID,
			seq,
			suiteJSON,
			o.Name,
			string(o.Status),
			o.Duration.Milliseconds(),
			o.Reason,
			msg,
			expected,
			actual,
		)
		if err != nil {
			return fmt.Errorf("write run: outcome %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// marshalSuitePath serializes the suite chain as canonical JSON so the
// stored form is byte-stable across runs.
func marshalSuitePath(path []string) (string, error) {
	arr := make([]any, len(path))
	for i, s := range path {
		arr[i] = s
	}
	data, err := report.MarshalCanonical(arr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
