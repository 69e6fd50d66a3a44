// Package matcher implements the assertion predicates used by the expectation
// layer. Every matcher is a pure function of the form
//
//	(subject, expected, options) -> Result{Matched, Explanation}
//
// Matchers never panic and never return Go errors: malformed expected input
// (an unparseable date baseline, an invalid pattern) degrades to
// Matched=false with an explanation string so the failure surfaces through
// the normal assertion path.
package matcher

import "fmt"

// Result is the outcome of a single predicate evaluation.
type Result struct {
	// Matched reports whether the predicate held.
	Matched bool

	// Explanation describes why the predicate did not hold.
	// Empty when Matched is true.
	Explanation string
}

// ok is the successful result shared by all matchers.
func ok() Result {
	return Result{Matched: true}
}

// failf builds a non-matching result with a formatted explanation.
func failf(format string, args ...any) Result {
	return Result{Matched: false, Explanation: fmt.Sprintf(format, args...)}
}
