// Package result collects per-case outcomes into the run summary handed to
// reporting collaborators.
package result

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Status is the terminal state of one executed case.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
)

// FailureDetail is the structured mismatch record carried by Fail and
// Error outcomes. It holds enough for a formatter to render a diff
// without re-deriving it.
type FailureDetail struct {
	Message  string
	Expected string
	Actual   string
	Diff     string
	Location string
}

// Outcome is the record of one executed case. Immutable once created.
type Outcome struct {
	// SuitePath names the enclosing suites, outermost first.
	SuitePath []string

	// Name is the case label.
	Name string

	Status   Status
	Duration time.Duration

	// Failure is set for StatusFail and StatusError.
	Failure *FailureDetail

	// Reason is the optional skip/pending reason.
	Reason string
}

// Classname joins the suite path into the dotted classname reporting
// formats expect.
func (o Outcome) Classname() string {
	return strings.Join(o.SuitePath, ".")
}

// Counts are the per-status totals of a run.
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
	Pending int
}

// Summary is the frozen snapshot of a completed (or in-progress) run.
// Consumers receive a deep copy; mutating it never touches the aggregator.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Counts    Counts

	// Outcomes preserves execution order.
	Outcomes []Outcome

	// Failures lists the Fail/Error outcomes in execution order.
	Failures []Outcome
}

// Passed reports whether the run had no failures or errors.
func (s Summary) Passed() bool {
	return s.Counts.Failed == 0 && s.Counts.Errored == 0
}

// Sink receives completed run summaries. The history store implements
// this; the core itself performs no I/O.
type Sink interface {
	WriteRun(ctx context.Context, summary Summary) error
}

// Aggregator accumulates outcomes during a run. It is the only mutable
// shared state of an execution; all access is mutex-guarded so a
// multi-threaded host stays correct even though the executor appends from
// a single logical thread.
type Aggregator struct {
	mu        sync.Mutex
	runID     string
	startedAt time.Time
	elapsed   time.Duration
	outcomes  []Outcome
}

// NewAggregator creates an aggregator stamped with a fresh run ID.
func NewAggregator(gen RunIDGenerator) *Aggregator {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &Aggregator{
		runID:     gen.Generate(),
		startedAt: time.Now().UTC(),
	}
}

// RunID returns the run's identifier.
func (a *Aggregator) RunID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runID
}

// Add appends one case outcome.
func (a *Aggregator) Add(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcomes = append(a.outcomes, o)
}

// SetElapsed records the total wall-clock duration of the run.
func (a *Aggregator) SetElapsed(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elapsed = d
}

// Summary returns a frozen deep-copied snapshot of the run so far.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		RunID:     a.runID,
		StartedAt: a.startedAt,
		Duration:  a.elapsed,
	}
	s.Outcomes = make([]Outcome, len(a.outcomes))
	for i, o := range a.outcomes {
		s.Outcomes[i] = copyOutcome(o)

		s.Counts.Total++
		switch o.Status {
		case StatusPass:
			s.Counts.Passed++
		case StatusFail:
			s.Counts.Failed++
		case StatusError:
			s.Counts.Errored++
		case StatusSkipped:
			s.Counts.Skipped++
		case StatusPending:
			s.Counts.Pending++
		}

		if o.Status == StatusFail || o.Status == StatusError {
			s.Failures = append(s.Failures, s.Outcomes[i])
		}
	}
	return s
}

func copyOutcome(o Outcome) Outcome {
	c := o
	c.SuitePath = append([]string(nil), o.SuitePath...)
	if o.Failure != nil {
		f := *o.Failure
		c.Failure = &f
	}
	return c
}
