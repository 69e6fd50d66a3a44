// Package async coordinates suspension points inside case bodies: timed
// waits, condition polling, and parallel fan-out/join.
//
// Branches of a parallel group run on real goroutines rather than a
// cooperative interleaver; the observable contract is the one the
// cooperative model guarantees: results ordered by input index, every
// branch error reported, elapsed time bounded by the slowest branch, and a
// timed-out branch never cancelling its siblings.
package async

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/roach88/firmo/internal/config"
)

// BranchFunc is one branch of a parallel group.
type BranchFunc func(ctx context.Context) (any, error)

// Coordinator provides the suspension primitives. Timing defaults come
// from the resolved host settings; explicit options override per call.
type Coordinator struct {
	settings config.Settings
	logger   *slog.Logger
}

// New creates a coordinator from the resolved settings.
func New(settings config.Settings, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{settings: settings, logger: logger}
}

// Await suspends the caller for at least d, or until ctx is done.
func (c *Coordinator) Await(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitOption overrides wait_until timing for one call.
type WaitOption func(*waitConfig)

type waitConfig struct {
	timeout time.Duration
	poll    time.Duration
}

// WithWaitTimeout bounds the whole wait.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(w *waitConfig) { w.timeout = d }
}

// WithPollInterval sets the predicate evaluation cadence.
func WithPollInterval(d time.Duration) WaitOption {
	return func(w *waitConfig) { w.poll = d }
}

// WaitUntil repeatedly evaluates pred at the poll cadence until it returns
// true or the timeout elapses. A timeout yields a *TimeoutError, which is
// distinguishable from the predicate simply having returned false on the
// last evaluation.
func (c *Coordinator) WaitUntil(ctx context.Context, pred func() bool, opts ...WaitOption) error {
	w := waitConfig{timeout: c.settings.DefaultTimeout, poll: c.settings.PollInterval}
	for _, opt := range opts {
		opt(&w)
	}
	if w.timeout <= 0 || w.poll <= 0 {
		return fmt.Errorf("wait_until: timeout and poll interval must be positive")
	}

	// Evaluate immediately; a predicate that is already true never waits.
	if pred() {
		return nil
	}

	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return &TimeoutError{Op: "wait_until", After: w.timeout}
		case <-ticker.C:
			if pred() {
				return nil
			}
		}
	}
}

// ParallelOption configures one parallel group.
type ParallelOption func(*parallelConfig)

type parallelConfig struct {
	branchTimeout time.Duration
	limit         int
}

// WithBranchTimeout bounds each branch individually. A branch exceeding
// the bound is marked TimedOut; siblings continue to their own resolution.
func WithBranchTimeout(d time.Duration) ParallelOption {
	return func(p *parallelConfig) { p.branchTimeout = d }
}

// WithLimit caps the number of branches executing at once. Zero falls
// back to the configured BranchLimit; both zero means unlimited.
func WithLimit(n int) ParallelOption {
	return func(p *parallelConfig) { p.limit = n }
}

// Parallel dispatches all branches, joins when every branch reaches a
// terminal state, and returns results ordered by input index.
//
// When one or more branches fail, the join returns a single
// *AggregateError enumerating each failing branch's index and message; it
// never drops sibling errors and never returns early on the first failure.
// Total elapsed time is bounded by the slowest branch, not the sum.
func (c *Coordinator) Parallel(ctx context.Context, branches []BranchFunc, opts ...ParallelOption) ([]any, error) {
	tasks := c.Dispatch(ctx, branches, opts...)

	results := make([]any, len(tasks))
	var agg AggregateError
	agg.Total = len(tasks)
	for i, task := range tasks {
		switch task.State() {
		case TaskResolved:
			results[i] = task.Result()
		default:
			agg.Branches = append(agg.Branches, BranchError{Index: i, Err: task.Err()})
		}
	}
	if len(agg.Branches) > 0 {
		return results, &agg
	}
	return results, nil
}

// Dispatch runs all branches and blocks until each reaches a terminal
// state. It returns the per-branch tasks so callers (and tests) can
// inspect individual states; Parallel is the aggregating wrapper.
func (c *Coordinator) Dispatch(ctx context.Context, branches []BranchFunc, opts ...ParallelOption) []*Task {
	p := parallelConfig{limit: c.settings.BranchLimit}
	for _, opt := range opts {
		opt(&p)
	}

	tasks := make([]*Task, len(branches))
	for i := range tasks {
		tasks[i] = newTask()
	}

	var sem *semaphore.Weighted
	if p.limit > 0 {
		sem = semaphore.NewWeighted(int64(p.limit))
	}

	// A plain errgroup: no shared cancellation, so one branch's failure or
	// timeout never aborts its siblings. Branch outcomes are recorded on
	// the tasks; g.Go closures always return nil.
	var g errgroup.Group
	for i, branch := range branches {
		i, branch := i, branch
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					tasks[i].reject(err)
					return nil
				}
				defer sem.Release(1)
			}
			c.runBranch(ctx, i, branch, tasks[i], p.branchTimeout)
			return nil
		})
	}
	_ = g.Wait()

	return tasks
}

// runBranch executes one branch, converting its return, panic, or timeout
// into exactly one task transition.
func (c *Coordinator) runBranch(ctx context.Context, index int, branch BranchFunc, task *Task, timeout time.Duration) {
	branchCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		branchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				c.logger.Debug("parallel branch panicked", "branch", index, "panic", r)
				if err, isErr := r.(error); isErr {
					task.reject(err)
				} else {
					task.reject(fmt.Errorf("%v", r))
				}
			}
		}()
		result, err := branch(branchCtx)
		if err != nil {
			task.reject(err)
			return
		}
		task.resolve(result)
	}()

	if timeout > 0 {
		select {
		case <-done:
		case <-branchCtx.Done():
			// First transition wins: if the branch finished concurrently the
			// mark below is a no-op. The branch goroutine keeps running
			// until it observes its context; any late transition is ignored.
			//
			// Only the branch's own deadline counts as a timeout. A parent
			// cancellation also fires branchCtx.Done and must keep its
			// cancellation identity.
			if errors.Is(branchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				task.timeout(&TimeoutError{Op: fmt.Sprintf("parallel branch %d", index), After: timeout})
			} else {
				task.reject(context.Cause(branchCtx))
			}
		}
		return
	}
	<-done
}
