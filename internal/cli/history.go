package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/firmo/internal/report"
	"github.com/roach88/firmo/internal/result"
	"github.com/roach88/firmo/internal/store"
)

// HistoryCmdOptions holds flags for the history command.
type HistoryCmdOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryCmdOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Browse stored runs",
		Long: `List runs recorded with 'run --db', newest first.

With a run ID argument, show that run's case outcomes instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(opts *HistoryCmdOptions, cmd *cobra.Command) error {
	ctx := cmdContext(cmd)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	records, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		runs := make([]any, 0, len(records))
		for _, rec := range records {
			runs = append(runs, runRecordMap(rec))
		}
		data, err := report.MarshalCanonical(map[string]any{"runs": runs})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render history", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s  %d passed, %d failed, %d errored (%s)\n",
			rec.ID,
			rec.StartedAt.UTC().Format(time.RFC3339),
			rec.Counts.Passed, rec.Counts.Failed, rec.Counts.Errored,
			rec.Duration)
	}
	return nil
}

func showRun(opts *HistoryCmdOptions, runID string, cmd *cobra.Command) error {
	ctx := cmdContext(cmd)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	rec, err := st.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run %q not found", runID))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	outcomes, err := st.RunOutcomes(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}

	summary := result.Summary{
		RunID:     rec.ID,
		StartedAt: rec.StartedAt,
		Duration:  rec.Duration,
		Counts:    rec.Counts,
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		if o.Status == result.StatusFail || o.Status == result.StatusError {
			summary.Failures = append(summary.Failures, o)
		}
	}
	if err := writeSummary(cmd, opts.Format, summary); err != nil {
		return WrapExitError(ExitCommandError, "failed to render run", err)
	}
	return nil
}

func runRecordMap(rec store.RunRecord) map[string]any {
	return map[string]any{
		"run_id":      rec.ID,
		"started_at":  rec.StartedAt.UTC().Format(time.RFC3339),
		"duration_ms": rec.Duration.Milliseconds(),
		"counts": map[string]any{
			"total":   rec.Counts.Total,
			"passed":  rec.Counts.Passed,
			"failed":  rec.Counts.Failed,
			"errored": rec.Counts.Errored,
			"skipped": rec.Counts.Skipped,
			"pending": rec.Counts.Pending,
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
