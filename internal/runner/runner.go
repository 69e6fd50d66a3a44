// Package runner executes a resolved test node tree and records outcomes.
//
// The executor drives suites and cases sequentially in declaration order
// on one logical thread; concurrency exists only inside the async
// coordinator's parallel groups. Per case the lifecycle is
//
//	Pending -> Running -> {Pass, Fail, ErrorRaised, Skipped, Pending}
//
// Setup hooks run outermost-first before the body; teardown hooks run
// innermost-first afterward on every exit path, including failures.
//
// Duration policy: a case's recorded duration covers the body only,
// hooks excluded. Tests assert this via the deterministic clock.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/firmo/internal/async"
	"github.com/roach88/firmo/internal/config"
	"github.com/roach88/firmo/internal/expect"
	"github.com/roach88/firmo/internal/result"
	"github.com/roach88/firmo/internal/tree"
)

// Clock supplies the instants used for duration measurement.
// Production uses the system clock; tests inject a deterministic one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Executor walks a resolved plan and appends outcomes to the aggregator.
type Executor struct {
	plan     *tree.Plan
	agg      *result.Aggregator
	settings config.Settings
	clock    Clock
	coord    *async.Coordinator
	logger   *slog.Logger
}

// Option configures an executor.
type Option func(*Executor)

// WithClock injects the duration clock.
func WithClock(c Clock) Option {
	return func(e *Executor) { e.clock = c }
}

// WithLogger injects the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// New creates an executor over a resolved plan.
func New(plan *tree.Plan, agg *result.Aggregator, settings config.Settings, opts ...Option) *Executor {
	e := &Executor{
		plan:     plan,
		agg:      agg,
		settings: settings,
		clock:    systemClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.coord = async.New(settings, e.logger)
	return e
}

// Run executes every resolved case in declaration order and returns the
// frozen run summary. Unresolved nodes (excluded, or unfocused while the
// tree has focus markers) produce no outcome at all.
//
// The returned error reflects infrastructure problems (context
// cancellation), never test failures; those live in the summary.
func (e *Executor) Run(ctx context.Context) (result.Summary, error) {
	start := time.Now()
	e.logger.Info("run starting",
		"run_id", e.agg.RunID(),
		"cases", e.plan.RunnableCases(),
	)

	var runErr error
	e.plan.Root().Walk(func(node *tree.Node, ancestors []*tree.Node) {
		if runErr != nil || node.Kind != tree.KindCase {
			return
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			return
		}
		if !e.plan.WillRun(node) {
			return
		}
		e.agg.Add(e.runCase(ctx, node, ancestors))
	})

	e.agg.SetElapsed(time.Since(start))
	summary := e.agg.Summary()
	e.logger.Info("run finished",
		"run_id", summary.RunID,
		"total", summary.Counts.Total,
		"passed", summary.Counts.Passed,
		"failed", summary.Counts.Failed,
		"errored", summary.Counts.Errored,
		"skipped", summary.Counts.Skipped,
		"pending", summary.Counts.Pending,
		"elapsed", summary.Duration,
	)
	return summary, runErr
}

// runCase executes one case through the full lifecycle and returns its
// outcome.
func (e *Executor) runCase(ctx context.Context, node *tree.Node, ancestors []*tree.Node) result.Outcome {
	outcome := result.Outcome{
		SuitePath: suitePath(ancestors),
		Name:      node.Name,
	}

	// Declared-pending cases never execute their body and see no hooks.
	if node.Options.Pending {
		outcome.Status = result.StatusPending
		outcome.Reason = node.Options.PendingReason
		e.logCase(outcome)
		return outcome
	}

	timeout := node.Options.Timeout
	if timeout <= 0 {
		timeout = e.settings.DefaultTimeout
	}
	caseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t := newT(caseCtx, e.coord, e.settings)

	// Setup hooks, outermost suite first. A raising hook terminates the
	// case as an error; the body never starts, but teardown still runs.
	setupErr := runHooks(setupHooks(ancestors))

	var elapsed time.Duration
	if setupErr == nil {
		bodyStart := e.clock.Now()
		e.classify(&outcome, t, node)
		elapsed = e.clock.Now().Sub(bodyStart)
	} else {
		outcome.Status = result.StatusError
		outcome.Failure = &result.FailureDetail{Message: fmt.Sprintf("setup hook: %v", setupErr)}
	}
	outcome.Duration = elapsed

	// Teardown hooks, innermost suite first, on every exit path. A
	// teardown raise overrides a passing outcome but never masks an
	// earlier failure.
	if teardownErr := runHooks(teardownHooks(ancestors)); teardownErr != nil {
		if outcome.Status == result.StatusPass {
			outcome.Status = result.StatusError
			outcome.Failure = &result.FailureDetail{Message: fmt.Sprintf("teardown hook: %v", teardownErr)}
		} else {
			e.logger.Warn("teardown hook raised after non-pass outcome",
				"case", node.Name, "error", teardownErr)
		}
	}

	e.logCase(outcome)
	return outcome
}

// classify runs the body and maps its exit into a status. Recovered panic
// values drive the error taxonomy:
//
//   - *expect.AssertionFailure -> Fail, with its structured detail
//   - haltSignal               -> Skipped or Pending
//   - anything else            -> ErrorRaised (including API misuse)
func (e *Executor) classify(outcome *result.Outcome, t *T, node *tree.Node) {
	defer func() {
		r := recover()
		if r == nil {
			// Body completed. In expect_error mode, completing without
			// having captured anything is itself a failure.
			if node.Options.ExpectError && t.capturedCount() == 0 {
				outcome.Status = result.StatusFail
				outcome.Failure = &result.FailureDetail{
					Message:  "expected the code under test to raise, but nothing was captured",
					Expected: "at least one captured error",
					Actual:   "none",
				}
				return
			}
			outcome.Status = result.StatusPass
			return
		}

		switch v := r.(type) {
		case *expect.AssertionFailure:
			outcome.Status = result.StatusFail
			outcome.Failure = &result.FailureDetail{
				Message:  v.Error(),
				Expected: v.Expected,
				Actual:   v.Actual,
				Diff:     v.Diff,
			}
		case haltSignal:
			if v.pending {
				outcome.Status = result.StatusPending
			} else {
				outcome.Status = result.StatusSkipped
			}
			outcome.Reason = v.reason
		case *expect.UsageError:
			outcome.Status = result.StatusError
			outcome.Failure = &result.FailureDetail{Message: v.Error()}
		case error:
			outcome.Status = result.StatusError
			outcome.Failure = &result.FailureDetail{Message: v.Error()}
		default:
			outcome.Status = result.StatusError
			outcome.Failure = &result.FailureDetail{Message: fmt.Sprintf("%v", v)}
		}
	}()

	node.Body(t)
}

// setupHooks collects BeforeEach hooks outermost-first.
func setupHooks(ancestors []*tree.Node) []tree.HookFunc {
	var hooks []tree.HookFunc
	for _, suite := range ancestors {
		hooks = append(hooks, suite.BeforeEach...)
	}
	return hooks
}

// teardownHooks collects AfterEach hooks innermost-first.
func teardownHooks(ancestors []*tree.Node) []tree.HookFunc {
	var hooks []tree.HookFunc
	for i := len(ancestors) - 1; i >= 0; i-- {
		hooks = append(hooks, ancestors[i].AfterEach...)
	}
	return hooks
}

// runHooks executes hooks in order, converting a panic into an error.
// Remaining hooks in the list still run so teardown stays complete.
func runHooks(hooks []tree.HookFunc) error {
	var first error
	for _, hook := range hooks {
		if err := runHook(hook); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func runHook(hook tree.HookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	hook()
	return nil
}

// suitePath extracts the named suite chain, dropping the anonymous root.
func suitePath(ancestors []*tree.Node) []string {
	var path []string
	for _, suite := range ancestors {
		if suite.Name != "" {
			path = append(path, suite.Name)
		}
	}
	return path
}

func (e *Executor) logCase(o result.Outcome) {
	e.logger.Debug("case finished",
		"suite", o.Classname(),
		"case", o.Name,
		"status", string(o.Status),
		"duration", o.Duration,
	)
}
