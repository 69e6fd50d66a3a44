// Package tree models the suite/case hierarchy a test run executes.
//
// The tree is built once through an explicit Builder (no ambient global
// registry), is immutable after Build, and is read-only during execution.
// Run eligibility is computed separately by Resolve.
package tree

import (
	"context"
	"time"

	"github.com/roach88/firmo/internal/async"
	"github.com/roach88/firmo/internal/expect"
)

// Kind distinguishes suites from cases.
type Kind int

const (
	// KindSuite is a named grouping of cases and nested suites.
	KindSuite Kind = iota + 1
	// KindCase is a single test with a body.
	KindCase
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSuite:
		return "suite"
	case KindCase:
		return "case"
	default:
		return "unknown"
	}
}

// FocusState is the per-node focus/exclusion marker.
type FocusState int

const (
	// FocusNormal runs whenever nothing else restricts the tree.
	FocusNormal FocusState = iota
	// FocusFocused restricts the run to focused nodes and their subtrees.
	FocusFocused
	// FocusExcluded removes the node and its subtree from every run.
	FocusExcluded
)

// String returns the lowercase focus name.
func (f FocusState) String() string {
	switch f {
	case FocusFocused:
		return "focused"
	case FocusExcluded:
		return "excluded"
	default:
		return "normal"
	}
}

// Options carries per-case configuration.
type Options struct {
	// ExpectError requires the body to capture an error from the code
	// under test; completing without one fails the case.
	ExpectError bool

	// Timeout bounds the case body. Zero means the configured default.
	Timeout time.Duration

	// Pending marks the case as declared-but-not-implemented. The body
	// never executes; the outcome is Pending with PendingReason.
	Pending       bool
	PendingReason string
}

// Body is a case body. The runner supplies the execution handle.
// The concrete handle type lives in the runner package; the tree stays
// independent of it through this indirection.
type Body func(t CaseContext)

// CaseContext is the capability surface a case body receives. The
// runner's T satisfies it.
type CaseContext interface {
	// Context is the case's execution context, carrying the declared or
	// default timeout.
	Context() context.Context

	// Skip halts the body and records a Skipped outcome.
	Skip(reason string)

	// Pending halts the body and records a Pending outcome.
	Pending(reason string)

	// Expect starts an expectation seeded with the configured tolerance.
	Expect(subject any) *expect.Expectation

	// Capture runs fn and converts a raise into a value, recording it for
	// the expect_error accounting.
	Capture(fn func()) *expect.RuntimeError

	// CaptureErr is the error-returning variant of Capture.
	CaptureErr(fn func() error) *expect.RuntimeError

	// CapturedError returns the most recent captured failure, or nil.
	CapturedError() *expect.RuntimeError

	// Await suspends the case for at least d.
	Await(d time.Duration) error

	// WaitUntil polls pred until true or timeout.
	WaitUntil(pred func() bool, opts ...async.WaitOption) error

	// Parallel fans out branches and joins on all of them.
	Parallel(branches []async.BranchFunc, opts ...async.ParallelOption) ([]any, error)
}

// HookFunc is a setup or teardown hook declared on a suite.
type HookFunc func()

// Node is one suite or case in the tree.
//
// Invariants: a case node has no children and no hooks; a suite node has
// no body of its own — the declaration closure ran once at build time and
// never counts toward pass/fail.
type Node struct {
	Kind  Kind
	Name  string
	Focus FocusState

	// Children are the ordered child nodes (suites only).
	Children []*Node

	// Body is the stored case body (cases only).
	Body Body

	// Options holds case configuration (cases only).
	Options Options

	// BeforeEach/AfterEach are the suite's hooks, applied to every case
	// in the subtree. Setup runs outermost-first, teardown innermost-first.
	BeforeEach []HookFunc
	AfterEach  []HookFunc
}

// Walk visits the node and its subtree depth-first in declaration order.
// The visitor receives the chain of enclosing suites, outermost first.
func (n *Node) Walk(visit func(node *Node, ancestors []*Node)) {
	n.walk(nil, visit)
}

func (n *Node) walk(ancestors []*Node, visit func(node *Node, ancestors []*Node)) {
	visit(n, ancestors)
	if n.Kind != KindSuite {
		return
	}
	childAncestors := append(ancestors, n)
	for _, child := range n.Children {
		child.walk(childAncestors, visit)
	}
}

// CountCases returns the number of case nodes in the subtree.
func (n *Node) CountCases() int {
	count := 0
	n.Walk(func(node *Node, _ []*Node) {
		if node.Kind == KindCase {
			count++
		}
	})
	return count
}
