package runner

import (
	"context"
	"time"

	"github.com/roach88/firmo/internal/async"
	"github.com/roach88/firmo/internal/config"
	"github.com/roach88/firmo/internal/expect"
)

// haltSignal is the typed panic Skip and Pending raise to unwind the case
// body. The executor recovers it and records the corresponding outcome.
type haltSignal struct {
	pending bool
	reason  string
}

// T is the execution handle passed to case bodies. It satisfies
// tree.CaseContext. One T exists per executed case and is discarded with
// it.
type T struct {
	ctx      context.Context
	coord    *async.Coordinator
	settings config.Settings
	captured []*expect.RuntimeError
}

func newT(ctx context.Context, coord *async.Coordinator, settings config.Settings) *T {
	return &T{ctx: ctx, coord: coord, settings: settings}
}

// Context returns the case's execution context. It carries the case's
// declared timeout, or the configured default.
func (t *T) Context() context.Context {
	return t.ctx
}

// Skip halts the body immediately and records a Skipped outcome with the
// given reason. Teardown hooks still run.
func (t *T) Skip(reason string) {
	panic(haltSignal{pending: false, reason: reason})
}

// Pending halts the body immediately and records a Pending outcome.
func (t *T) Pending(reason string) {
	panic(haltSignal{pending: true, reason: reason})
}

// Expect starts an expectation on subject, seeded with the configured
// numeric tolerance.
func (t *T) Expect(subject any) *expect.Expectation {
	return expect.Expect(subject).WithTolerance(t.settings.Epsilon)
}

// Capture runs fn and converts a raise by the code under test into a
// value, recording it for expect_error accounting. Returns nil when fn
// completes cleanly. Expectation API misuse is re-raised, never captured.
func (t *T) Capture(fn func()) *expect.RuntimeError {
	captured := expect.Capture(fn)
	if captured != nil {
		t.captured = append(t.captured, captured)
	}
	return captured
}

// CaptureErr is the error-returning variant of Capture.
func (t *T) CaptureErr(fn func() error) *expect.RuntimeError {
	captured := expect.CaptureErr(fn)
	if captured != nil {
		t.captured = append(t.captured, captured)
	}
	return captured
}

// CapturedError returns the most recently captured failure, or nil when
// nothing has been captured.
func (t *T) CapturedError() *expect.RuntimeError {
	if len(t.captured) == 0 {
		return nil
	}
	return t.captured[len(t.captured)-1]
}

// Await suspends the case for at least d.
func (t *T) Await(d time.Duration) error {
	return t.coord.Await(t.ctx, d)
}

// WaitUntil polls pred at the configured cadence until true or timeout.
func (t *T) WaitUntil(pred func() bool, opts ...async.WaitOption) error {
	return t.coord.WaitUntil(t.ctx, pred, opts...)
}

// Parallel fans out branches and joins when all reach a terminal state.
func (t *T) Parallel(branches []async.BranchFunc, opts ...async.ParallelOption) ([]any, error) {
	return t.coord.Parallel(t.ctx, branches, opts...)
}

func (t *T) capturedCount() int {
	return len(t.captured)
}
