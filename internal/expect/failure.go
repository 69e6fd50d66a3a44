// Package expect provides the fluent expectation wrapper around the matcher
// library, and the failure taxonomy the executor classifies outcomes by.
//
// Assertion failures propagate as a typed panic recovered by the test
// executor. Code-under-test failures stay in error-value space: Capture
// converts a raising call into a *RuntimeError so a case body can assert on
// it (the expect_error mechanism). API misuse raises *UsageError, which
// Capture deliberately refuses to intercept.
package expect

import (
	"fmt"
	"strings"
)

// AssertionFailure is raised by an Expectation terminal call when the
// selected matcher (after negation) does not hold. It carries enough
// structured detail for a reporting formatter to render a diff without
// re-deriving it.
type AssertionFailure struct {
	// Qualifiers is the chain used to select the matcher, e.g. ["not", "contain", "deep_key"].
	Qualifiers []string

	// Message is the matcher's explanation of the mismatch.
	Message string

	// Expected and Actual are human-readable descriptions of both sides.
	Expected string
	Actual   string

	// Diff is a rendered expected-vs-actual representation.
	Diff string

	// Custom is the optional caller-supplied message.
	Custom string
}

// Error implements the error interface with the multi-line rendering the
// reporting layer embeds verbatim.
func (e *AssertionFailure) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", strings.Join(e.Qualifiers, "."))
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Message != "" {
		fmt.Fprintf(&buf, "  Detail: %s\n", e.Message)
	}
	if e.Custom != "" {
		fmt.Fprintf(&buf, "  Note: %s\n", e.Custom)
	}
	return buf.String()
}

// UsageError indicates programmer misuse of the expectation API itself:
// wrong argument arity or type fed to a terminal call. It is raised
// immediately and is not interceptable by Capture, so a malformed
// assertion can never masquerade as a captured code-under-test error.
type UsageError struct {
	Op     string // terminal call that was misused
	Reason string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("expectation misuse in %s: %s", e.Op, e.Reason)
}

// RuntimeError wraps a failure raised by code under test, surfaced as a
// value by Capture so the case body can assert on it.
type RuntimeError struct {
	// Value is the original panic value or returned error.
	Value any
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}

// Unwrap exposes a wrapped error value for errors.Is/As chains.
func (e *RuntimeError) Unwrap() error {
	if err, isErr := e.Value.(error); isErr {
		return err
	}
	return nil
}

// Capture invokes fn and converts a raise into a *RuntimeError value.
// Returns nil when fn completes cleanly.
//
// A *UsageError panic is re-raised: assertion misuse terminates the case
// rather than being treated as a captured failure.
func Capture(fn func()) (captured *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			if usage, isUsage := r.(*UsageError); isUsage {
				panic(usage)
			}
			captured = &RuntimeError{Value: r}
		}
	}()
	fn()
	return nil
}

// CaptureErr is the error-returning variant of Capture for code under test
// that follows the explicit error contract.
func CaptureErr(fn func() error) *RuntimeError {
	var err error
	if captured := Capture(func() { err = fn() }); captured != nil {
		return captured
	}
	if err != nil {
		return &RuntimeError{Value: err}
	}
	return nil
}
