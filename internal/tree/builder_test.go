package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDeclarationOrder(t *testing.T) {
	var declared []string
	b := NewBuilder()
	b.Describe("outer", func() {
		declared = append(declared, "outer")
		b.Describe("inner", func() {
			declared = append(declared, "inner")
			b.It("leaf", func(CaseContext) {})
		})
		b.It("sibling", func(CaseContext) {})
	})
	root := b.Build()

	// Suite closures run immediately, in declaration order.
	assert.Equal(t, []string{"outer", "inner"}, declared)

	require.Len(t, root.Children, 1)
	outer := root.Children[0]
	assert.Equal(t, KindSuite, outer.Kind)
	require.Len(t, outer.Children, 2)
	assert.Equal(t, "inner", outer.Children[0].Name)
	assert.Equal(t, "sibling", outer.Children[1].Name)
	assert.Equal(t, KindCase, outer.Children[1].Kind)
}

func TestBuilderCaseBodiesAreStoredNotRun(t *testing.T) {
	var ran bool
	b := NewBuilder()
	b.Describe("suite", func() {
		b.It("case", func(CaseContext) { ran = true })
	})
	root := b.Build()

	assert.False(t, ran)
	assert.Equal(t, 1, root.CountCases())
}

func TestBuilderFocusMarkers(t *testing.T) {
	b := NewBuilder()
	b.FDescribe("focused suite", func() {
		b.XIt("excluded case", func(CaseContext) {})
	})
	b.XDescribe("excluded suite", func() {
		b.FIt("focused case", func(CaseContext) {})
	})
	root := b.Build()

	assert.Equal(t, FocusFocused, root.Children[0].Focus)
	assert.Equal(t, FocusExcluded, root.Children[0].Children[0].Focus)
	assert.Equal(t, FocusExcluded, root.Children[1].Focus)
	assert.Equal(t, FocusFocused, root.Children[1].Children[0].Focus)
}

func TestBuilderCaseOptions(t *testing.T) {
	b := NewBuilder()
	b.Describe("suite", func() {
		b.It("configured", func(CaseContext) {},
			WithExpectError(), WithTimeout(2*time.Second))
		b.It("pending", nil, WithPending("blocked"))
		b.It("bodyless", nil)
	})
	root := b.Build()

	suite := root.Children[0]
	configured := suite.Children[0]
	assert.True(t, configured.Options.ExpectError)
	assert.Equal(t, 2*time.Second, configured.Options.Timeout)

	pending := suite.Children[1]
	assert.True(t, pending.Options.Pending)
	assert.Equal(t, "blocked", pending.Options.PendingReason)

	bodyless := suite.Children[2]
	assert.True(t, bodyless.Options.Pending)
	assert.Equal(t, "not yet implemented", bodyless.Options.PendingReason)
}

func TestBuilderHooksAttachToCurrentSuite(t *testing.T) {
	b := NewBuilder()
	b.Describe("outer", func() {
		b.BeforeEach(func() {})
		b.Describe("inner", func() {
			b.BeforeEach(func() {})
			b.AfterEach(func() {})
		})
	})
	root := b.Build()

	outer := root.Children[0]
	assert.Len(t, outer.BeforeEach, 1)
	assert.Empty(t, outer.AfterEach)
	inner := outer.Children[0]
	assert.Len(t, inner.BeforeEach, 1)
	assert.Len(t, inner.AfterEach, 1)
}

func TestBuilderFreezesAfterBuild(t *testing.T) {
	b := NewBuilder()
	b.Describe("suite", func() {
		b.It("case", func(CaseContext) {})
	})
	b.Build()

	assert.Panics(t, func() { b.It("late", func(CaseContext) {}) })
	assert.Panics(t, func() { b.Describe("late", func() {}) })
	assert.Panics(t, func() { b.BeforeEach(func() {}) })
	assert.Panics(t, func() { b.Build() })
}

func TestBuilderRejectsNilSuiteClosure(t *testing.T) {
	b := NewBuilder()
	assert.Panics(t, func() { b.Describe("broken", nil) })
}

func TestWalkVisitsAncestorsOutermostFirst(t *testing.T) {
	b := NewBuilder()
	b.Describe("a", func() {
		b.Describe("b", func() {
			b.It("leaf", func(CaseContext) {})
		})
	})
	root := b.Build()

	var leafAncestors []string
	root.Walk(func(node *Node, ancestors []*Node) {
		if node.Kind == KindCase {
			for _, a := range ancestors {
				leafAncestors = append(leafAncestors, a.Name)
			}
		}
	})
	assert.Equal(t, []string{"", "a", "b"}, leafAncestors)
}
