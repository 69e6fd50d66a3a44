// Package report renders completed run summaries for consumption outside
// the engine: a human-readable text form and a canonical JSON form for
// machines. The package is a pure boundary; it never re-derives verdicts.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/firmo/internal/result"
)

// Render writes the human-readable text form of a run summary.
func Render(w io.Writer, s result.Summary) error {
	if _, err := fmt.Fprintf(w, "Run %s\n\n", s.RunID); err != nil {
		return err
	}

	for _, o := range s.Outcomes {
		line := fmt.Sprintf("  %-7s %s (%s)", string(o.Status), fullName(o), o.Duration)
		if o.Reason != "" {
			line += fmt.Sprintf(" [%s]", o.Reason)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(s.Failures) > 0 {
		if _, err := fmt.Fprintf(w, "\nFailures:\n"); err != nil {
			return err
		}
		for i, f := range s.Failures {
			if _, err := fmt.Fprintf(w, "\n  %d) %s\n", i+1, fullName(f)); err != nil {
				return err
			}
			if f.Failure != nil {
				for _, line := range strings.Split(strings.TrimRight(f.Failure.Message, "\n"), "\n") {
					if _, err := fmt.Fprintf(w, "     %s\n", line); err != nil {
						return err
					}
				}
			}
		}
	}

	_, err := fmt.Fprintf(w, "\n%s in %s\n", tally(s.Counts), s.Duration)
	return err
}

// RenderJSON produces the canonical JSON form of a run summary. Identical
// summaries serialize to identical bytes.
func RenderJSON(s result.Summary) ([]byte, error) {
	return MarshalCanonical(summaryMap(s))
}

func fullName(o result.Outcome) string {
	if cn := o.Classname(); cn != "" {
		return cn + " > " + o.Name
	}
	return o.Name
}

// tally renders the counts footer, listing only the statuses that occurred
// beyond the always-present passed count.
func tally(c result.Counts) string {
	parts := []string{fmt.Sprintf("%d passed", c.Passed)}
	if c.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", c.Failed))
	}
	if c.Errored > 0 {
		parts = append(parts, fmt.Sprintf("%d errored", c.Errored))
	}
	if c.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", c.Skipped))
	}
	if c.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", c.Pending))
	}
	return fmt.Sprintf("%d cases: %s", c.Total, strings.Join(parts, ", "))
}

// summaryMap converts a summary to the plain-map shape canonical JSON
// accepts. Durations become integral milliseconds; instants become RFC 3339
// strings. Optional fields are omitted rather than serialized as null.
func summaryMap(s result.Summary) map[string]any {
	outcomes := make([]any, len(s.Outcomes))
	for i, o := range s.Outcomes {
		outcomes[i] = outcomeMap(o)
	}
	return map[string]any{
		"run_id":      s.RunID,
		"started_at":  s.StartedAt.UTC().Format(time.RFC3339),
		"duration_ms": s.Duration.Milliseconds(),
		"counts": map[string]any{
			"total":   s.Counts.Total,
			"passed":  s.Counts.Passed,
			"failed":  s.Counts.Failed,
			"errored": s.Counts.Errored,
			"skipped": s.Counts.Skipped,
			"pending": s.Counts.Pending,
		},
		"outcomes": outcomes,
	}
}

func outcomeMap(o result.Outcome) map[string]any {
	suite := make([]any, len(o.SuitePath))
	for i, s := range o.SuitePath {
		suite[i] = s
	}
	m := map[string]any{
		"suite":       suite,
		"name":        o.Name,
		"status":      string(o.Status),
		"duration_ms": o.Duration.Milliseconds(),
	}
	if o.Reason != "" {
		m["reason"] = o.Reason
	}
	if o.Failure != nil {
		f := map[string]any{"message": o.Failure.Message}
		if o.Failure.Expected != "" {
			f["expected"] = o.Failure.Expected
		}
		if o.Failure.Actual != "" {
			f["actual"] = o.Failure.Actual
		}
		if o.Failure.Location != "" {
			f["location"] = o.Failure.Location
		}
		m["failure"] = f
	}
	return m
}
