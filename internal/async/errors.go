package async

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError is raised when wait_until or a parallel branch exceeds its
// time bound. It is a distinct type so callers can branch on it without
// confusing it with an assertion failure or a captured runtime error.
type TimeoutError struct {
	// Op names the waiting operation ("wait_until", "parallel branch 2").
	Op string

	// After is the bound that was exceeded.
	After time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Op, e.After)
}

// BranchError pairs a failing parallel branch with its input index.
type BranchError struct {
	Index int
	Err   error
}

// AggregateError wraps every failing branch of a parallel group. The join
// never drops a branch's error: the message enumerates each failing
// branch's index and original message.
type AggregateError struct {
	// Total is the size of the parallel group.
	Total int

	Branches []BranchError
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d of %d parallel branches failed:", len(e.Branches), e.Total)
	for _, b := range e.Branches {
		fmt.Fprintf(&buf, "\n  branch %d: %v", b.Index, b.Err)
	}
	return buf.String()
}

// Unwrap exposes the branch errors for errors.Is/As chains.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Branches))
	for i, b := range e.Branches {
		errs[i] = b.Err
	}
	return errs
}
