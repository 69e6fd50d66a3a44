package scenario

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/firmo/internal/config"
	"github.com/roach88/firmo/internal/result"
	"github.com/roach88/firmo/internal/runner"
	"github.com/roach88/firmo/internal/testutil"
	"github.com/roach88/firmo/internal/tree"
)

const validScenario = `
name: sample
suites:
  - name: math
    cases:
      - name: adds
        checks:
          - kind: equal
            subject: 4
            expected: 4
      - name: someday
        pending: true
        reason: blocked on upstream
    suites:
      - name: nested
        cases:
          - name: near pi
            checks:
              - kind: near
                subject: 3.14159
                expected: 3.14
                tolerance: 0.01
`

func TestParseValidScenario(t *testing.T) {
	f, err := Parse([]byte(validScenario))
	require.NoError(t, err)

	assert.Equal(t, "sample", f.Name)
	require.Len(t, f.Suites, 1)
	math := f.Suites[0]
	assert.Equal(t, "math", math.Name)
	require.Len(t, math.Cases, 2)
	assert.Equal(t, "adds", math.Cases[0].Name)
	assert.True(t, math.Cases[1].Pending)
	require.Len(t, math.Suites, 1)
	require.Len(t, math.Suites[0].Cases, 1)
	assert.Equal(t, 0.01, math.Suites[0].Cases[0].Checks[0].Tolerance)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ""},
		{"missing name", "suites: []\n"},
		{"empty suite name", "name: x\nsuites:\n  - name: \"\"\n"},
		{"unknown check kind", `
name: x
suites:
  - name: s
    cases:
      - name: c
        checks:
          - kind: levitates
            subject: 1
`},
		{"bad focus value", `
name: x
suites:
  - name: s
    focus: sideways
`},
		{"negative tolerance", `
name: x
suites:
  - name: s
    cases:
      - name: c
        checks:
          - kind: near
            subject: 1
            expected: 1
            tolerance: -0.5
`},
		{"expect_error has no scenario form", `
name: x
suites:
  - name: s
    cases:
      - name: c
        expect_error: true
        checks: []
`},
		{"not yaml at all", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBuildTreeShape(t *testing.T) {
	f, err := Parse([]byte(validScenario))
	require.NoError(t, err)

	root, err := Build(f)
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	math := root.Children[0]
	assert.Equal(t, tree.KindSuite, math.Kind)
	assert.Equal(t, "math", math.Name)
	// Nested suites declare before cases within a suite.
	require.Len(t, math.Children, 3)
	assert.Equal(t, "nested", math.Children[0].Name)
	assert.Equal(t, "adds", math.Children[1].Name)
	assert.Equal(t, "someday", math.Children[2].Name)
	assert.True(t, math.Children[2].Options.Pending)
}

func TestBuildFocusMarkers(t *testing.T) {
	f, err := Parse([]byte(`
name: focus
suites:
  - name: chosen
    focus: focused
    cases:
      - name: kept
        checks: []
  - name: dead
    focus: excluded
    cases:
      - name: dropped
        focus: focused
        checks: []
`))
	require.NoError(t, err)

	root, err := Build(f)
	require.NoError(t, err)
	assert.Equal(t, tree.FocusFocused, root.Children[0].Focus)
	assert.Equal(t, tree.FocusExcluded, root.Children[1].Focus)
	assert.Equal(t, tree.FocusFocused, root.Children[1].Children[0].Focus)
}

func TestBuildRejectsBadTimeout(t *testing.T) {
	f := &File{
		Name: "x",
		Suites: []Suite{{
			Name:  "s",
			Cases: []Case{{Name: "c", Timeout: "five minutes"}},
		}},
	}
	_, err := Build(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestBuildRejectsIncompleteChecks(t *testing.T) {
	tests := []struct {
		name  string
		check Check
	}{
		{"between without bounds", Check{Kind: "between", Subject: 5}},
		{"match without pattern", Check{Kind: "match", Subject: "s"}},
		{"deep_key without path", Check{Kind: "deep_key", Subject: map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{
				Name: "x",
				Suites: []Suite{{
					Name:  "s",
					Cases: []Case{{Name: "c", Checks: []Check{tt.check}}},
				}},
			}
			_, err := Build(f)
			assert.Error(t, err)
		})
	}
}

func runScenario(t *testing.T, src string) result.Summary {
	t.Helper()
	f, err := Parse([]byte(src))
	require.NoError(t, err)
	root, err := Build(f)
	require.NoError(t, err)

	agg := result.NewAggregator(testutil.NewFixedRunIDGenerator("run-1"))
	exec := runner.New(tree.Resolve(root), agg, config.Default(),
		runner.WithClock(testutil.NewDeterministicClock(time.Unix(0, 0).UTC(), 0)),
		runner.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	summary, err := exec.Run(context.Background())
	require.NoError(t, err)
	return summary
}

func TestScenarioExecutesChecks(t *testing.T) {
	summary := runScenario(t, `
name: checks
suites:
  - name: s
    cases:
      - name: all kinds pass
        checks:
          - kind: equal
            subject: {a: 1, b: 2}
            expected: {b: 2, a: 1}
          - kind: near
            subject: 1.0001
            expected: 1.0
            tolerance: 0.01
          - kind: between
            subject: 5
            low: 1
            high: 10
          - kind: match
            subject: error 42
            pattern: 'error \d+'
          - kind: contain
            subject: [1, 2, 3]
            expected: 2
          - kind: contain_key
            subject: {k: v}
            expected: k
          - kind: deep_key
            subject: {nested: {value: 123}}
            path: nested.value
          - kind: deep_key_value
            subject: {nested: {value: 123}}
            path: nested.value
            expected: 123
          - kind: subset
            subject: {a: 1, b: 2}
            expected: {a: 1}
          - kind: before
            subject: 2024-01-01
            expected: 2024-06-01
          - kind: after
            subject: 2024-06-01
            expected: 2024-01-01
          - kind: same_day
            subject: 2024-06-15T01:00:00Z
            expected: 2024-06-15T23:00:00Z
          - kind: equal
            negate: true
            subject: 1
            expected: 2
      - name: failing check
        checks:
          - kind: equal
            subject: 1
            expected: 2
            message: ids must line up
`)

	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, result.StatusPass, summary.Outcomes[0].Status)
	assert.Equal(t, result.StatusFail, summary.Outcomes[1].Status)
	require.NotNil(t, summary.Outcomes[1].Failure)
	assert.Contains(t, summary.Outcomes[1].Failure.Message, "ids must line up")
}

func TestScenarioGolden(t *testing.T) {
	RunGolden(t, "testdata/basic.yaml")
}
