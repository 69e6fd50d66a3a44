package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// runnableNames resolves the tree and returns the names of cases that will
// run, in declaration order.
func runnableNames(root *Node) []string {
	plan := Resolve(root)
	var names []string
	root.Walk(func(node *Node, _ []*Node) {
		if node.Kind == KindCase && plan.WillRun(node) {
			names = append(names, node.Name)
		}
	})
	return names
}

func TestResolveWithoutFocusRunsEverything(t *testing.T) {
	b := NewBuilder()
	b.Describe("a", func() {
		b.It("one", func(CaseContext) {})
		b.Describe("nested", func() {
			b.It("two", func(CaseContext) {})
		})
	})
	b.Describe("b", func() {
		b.It("three", func(CaseContext) {})
	})

	assert.Equal(t, []string{"one", "two", "three"}, runnableNames(b.Build()))
}

func TestResolveSingleFocusedCase(t *testing.T) {
	// One focused case among several normal suites restricts the run to
	// exactly that case.
	b := NewBuilder()
	b.Describe("first", func() {
		b.It("a", func(CaseContext) {})
	})
	b.Describe("second", func() {
		b.FIt("chosen", func(CaseContext) {})
		b.It("b", func(CaseContext) {})
	})
	b.Describe("third", func() {
		b.It("c", func(CaseContext) {})
	})

	assert.Equal(t, []string{"chosen"}, runnableNames(b.Build()))
}

func TestResolveFocusedSuiteRunsItsSubtree(t *testing.T) {
	b := NewBuilder()
	b.FDescribe("G", func() {
		b.It("a", func(CaseContext) {})
		b.It("b", func(CaseContext) {})
	})
	b.Describe("H", func() {
		b.It("c", func(CaseContext) {})
	})

	assert.Equal(t, []string{"a", "b"}, runnableNames(b.Build()))
}

func TestResolveExclusion(t *testing.T) {
	b := NewBuilder()
	b.XDescribe("quarantined", func() {
		b.It("never", func(CaseContext) {})
	})
	b.Describe("live", func() {
		b.It("runs", func(CaseContext) {})
		b.XIt("skipped forever", func(CaseContext) {})
	})

	assert.Equal(t, []string{"runs"}, runnableNames(b.Build()))
}

func TestResolveExclusionOverridesFocus(t *testing.T) {
	tests := []struct {
		name    string
		declare func(b *Builder)
		want    []string
	}{
		{
			name: "focused case under excluded suite never runs",
			declare: func(b *Builder) {
				b.XDescribe("dead", func() {
					b.FIt("focused", func(CaseContext) {})
				})
				b.FDescribe("alive", func() {
					b.It("runs", func(CaseContext) {})
				})
			},
			want: []string{"runs"},
		},
		{
			name: "excluded case inside focused suite stays excluded",
			declare: func(b *Builder) {
				b.FDescribe("focused", func() {
					b.It("kept", func(CaseContext) {})
					b.XIt("dropped", func(CaseContext) {})
				})
			},
			want: []string{"kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.declare(b)
			assert.Equal(t, tt.want, runnableNames(b.Build()))
		})
	}
}

func TestResolveFocusInsideExcludedSubtreeStillRestricts(t *testing.T) {
	// The focus scan is tree-wide, so a focus marker inside an excluded
	// subtree still switches the run into focus mode even though the marked
	// node itself can never run.
	b := NewBuilder()
	b.XDescribe("dead", func() {
		b.FIt("focused but excluded", func(CaseContext) {})
	})
	b.Describe("normal", func() {
		b.It("unfocused", func(CaseContext) {})
	})

	assert.Empty(t, runnableNames(b.Build()))
}

func TestResolveRunnableCases(t *testing.T) {
	b := NewBuilder()
	b.Describe("suite", func() {
		b.It("a", func(CaseContext) {})
		b.XIt("b", func(CaseContext) {})
		b.It("c", func(CaseContext) {})
	})

	plan := Resolve(b.Build())
	assert.Equal(t, 2, plan.RunnableCases())
}
