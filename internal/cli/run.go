package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/firmo/internal/config"
	"github.com/roach88/firmo/internal/report"
	"github.com/roach88/firmo/internal/result"
	"github.com/roach88/firmo/internal/runner"
	"github.com/roach88/firmo/internal/scenario"
	"github.com/roach88/firmo/internal/store"
	"github.com/roach88/firmo/internal/tree"
)

// RunCmdOptions holds flags for the run command.
type RunCmdOptions struct {
	*RootOptions
	Config   string
	Database string

	// RunIDGenerator allows overriding run ID generation (for testing).
	// If nil, defaults to UUIDv7.
	RunIDGenerator result.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunCmdOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml> [more scenarios...]",
		Short: "Execute scenario files",
		Long: `Execute one or more scenario files as a single run.

Scenarios are validated, compiled into one test tree in argument order, and
executed sequentially. The summary is printed in the selected format; with
--db, the run is also appended to the history database.

Example:
  firmo run ./scenarios/smoke.yaml
  firmo run --db ./history.db --format json ./scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to settings YAML")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database")

	return cmd
}

func runScenarios(opts *RunCmdOptions, paths []string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	settings := config.Default()
	if opts.Config != "" {
		var err error
		settings, err = config.Load(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load settings", err)
		}
	}

	b := tree.NewBuilder()
	for _, path := range paths {
		f, err := scenario.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
		}
		if err := scenario.BuildInto(b, f); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to compile %s", path), err)
		}
	}
	plan := tree.Resolve(b.Build())

	agg := result.NewAggregator(opts.RunIDGenerator)
	exec := runner.New(plan, agg, settings, runner.WithLogger(logger))

	ctx := cmdContext(cmd)
	summary, err := exec.Run(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "run aborted", err)
	}

	if opts.Database != "" {
		if err := persistRun(ctx, opts.Database, summary, logger); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	if err := writeSummary(cmd, opts.Format, summary); err != nil {
		return WrapExitError(ExitCommandError, "failed to render summary", err)
	}

	if !summary.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d failing, %d errored",
			summary.Counts.Failed, summary.Counts.Errored))
	}
	return nil
}

func persistRun(ctx context.Context, path string, summary result.Summary, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	return st.WriteRun(ctx, summary)
}

func writeSummary(cmd *cobra.Command, format string, summary result.Summary) error {
	if format == "json" {
		data, err := report.RenderJSON(summary)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return report.Render(cmd.OutOrStdout(), summary)
}
