package scenario

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/firmo/internal/config"
	"github.com/roach88/firmo/internal/report"
	"github.com/roach88/firmo/internal/result"
	"github.com/roach88/firmo/internal/runner"
	"github.com/roach88/firmo/internal/testutil"
	"github.com/roach88/firmo/internal/tree"
)

// RunGolden executes a scenario file with deterministic identity inputs and
// compares the canonical JSON summary against a golden file at
// testdata/golden/{scenario name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// The snapshot scrubs wall-clock data (start instant, durations) so the
// golden bytes depend only on scenario semantics, never on host speed.
func RunGolden(t *testing.T, path string) {
	t.Helper()

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	root, err := Build(f)
	if err != nil {
		t.Fatalf("build scenario: %v", err)
	}

	agg := result.NewAggregator(testutil.NewFixedRunIDGenerator("golden-run"))
	exec := runner.New(tree.Resolve(root), agg, config.Default(),
		runner.WithClock(testutil.NewDeterministicClock(time.Unix(0, 0).UTC(), 0)),
		runner.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	summary, err := exec.Run(context.Background())
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}

	data, err := report.RenderJSON(scrub(summary))
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, f.Name, data)
}

// scrub strips the nondeterministic fields from a summary snapshot.
func scrub(s result.Summary) result.Summary {
	s.StartedAt = time.Unix(0, 0).UTC()
	s.Duration = 0
	for i := range s.Outcomes {
		s.Outcomes[i].Duration = 0
	}
	for i := range s.Failures {
		s.Failures[i].Duration = 0
	}
	return s
}
