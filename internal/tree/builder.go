package tree

import (
	"fmt"
	"time"
)

// Builder constructs a test node tree through declaration calls. It replaces
// the ambient describe/it registry with an explicit object so trees build
// deterministically and the framework itself stays testable.
//
// Suite declaration closures execute immediately and synchronously; case
// bodies are stored unexecuted. After Build the tree is frozen and further
// declarations panic.
type Builder struct {
	root  *Node
	stack []*Node
	built bool
}

// NewBuilder creates a builder with an implicit root suite.
func NewBuilder() *Builder {
	root := &Node{Kind: KindSuite, Name: ""}
	return &Builder{root: root, stack: []*Node{root}}
}

// CaseOption configures a declared case.
type CaseOption func(*Options)

// WithExpectError marks the case as expecting a captured error from the
// code under test.
func WithExpectError() CaseOption {
	return func(o *Options) { o.ExpectError = true }
}

// WithTimeout bounds the case body.
func WithTimeout(d time.Duration) CaseOption {
	return func(o *Options) { o.Timeout = d }
}

// WithPending declares the case without running its body.
func WithPending(reason string) CaseOption {
	return func(o *Options) {
		o.Pending = true
		o.PendingReason = reason
	}
}

// Describe declares a suite and immediately runs decl to register its
// children.
func (b *Builder) Describe(name string, decl func()) {
	b.suite(name, FocusNormal, decl)
}

// FDescribe declares a focused suite.
func (b *Builder) FDescribe(name string, decl func()) {
	b.suite(name, FocusFocused, decl)
}

// XDescribe declares an excluded suite. Exclusion covers every descendant
// regardless of their own markers.
func (b *Builder) XDescribe(name string, decl func()) {
	b.suite(name, FocusExcluded, decl)
}

// It declares a case, storing body without executing it.
func (b *Builder) It(name string, body Body, opts ...CaseOption) {
	b.caseNode(name, FocusNormal, body, opts)
}

// FIt declares a focused case.
func (b *Builder) FIt(name string, body Body, opts ...CaseOption) {
	b.caseNode(name, FocusFocused, body, opts)
}

// XIt declares an excluded case.
func (b *Builder) XIt(name string, body Body, opts ...CaseOption) {
	b.caseNode(name, FocusExcluded, body, opts)
}

// BeforeEach registers a setup hook on the current suite. Hooks from
// enclosing suites run outermost-first before each case in the subtree.
func (b *Builder) BeforeEach(hook HookFunc) {
	b.ensureOpen()
	cur := b.current()
	cur.BeforeEach = append(cur.BeforeEach, hook)
}

// AfterEach registers a teardown hook on the current suite. Hooks run
// innermost-first after each case, on every exit path.
func (b *Builder) AfterEach(hook HookFunc) {
	b.ensureOpen()
	cur := b.current()
	cur.AfterEach = append(cur.AfterEach, hook)
}

// Build freezes and returns the tree. Declarations after Build panic.
func (b *Builder) Build() *Node {
	b.ensureOpen()
	if len(b.stack) != 1 {
		// Unreachable when decl closures run to completion; retained as a
		// build-time integrity check.
		panic(fmt.Sprintf("tree: %d suites still open at Build", len(b.stack)-1))
	}
	b.built = true
	return b.root
}

func (b *Builder) suite(name string, focus FocusState, decl func()) {
	b.ensureOpen()
	if decl == nil {
		panic(fmt.Sprintf("tree: suite %q declared with nil closure", name))
	}
	node := &Node{Kind: KindSuite, Name: name, Focus: focus}
	cur := b.current()
	cur.Children = append(cur.Children, node)

	// Suite bodies run once, now, to declare children. They never execute
	// again and never count toward pass/fail.
	b.stack = append(b.stack, node)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()
	decl()
}

func (b *Builder) caseNode(name string, focus FocusState, body Body, opts []CaseOption) {
	b.ensureOpen()
	node := &Node{Kind: KindCase, Name: name, Focus: focus, Body: body}
	for _, opt := range opts {
		opt(&node.Options)
	}
	if body == nil && !node.Options.Pending {
		// A body-less case is implicitly pending rather than a build error.
		node.Options.Pending = true
		node.Options.PendingReason = "not yet implemented"
	}
	cur := b.current()
	cur.Children = append(cur.Children, node)
}

func (b *Builder) current() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) ensureOpen() {
	if b.built {
		panic("tree: declaration after Build")
	}
}
