package tree

// Plan is the derived, transient run-eligibility map for one tree.
// It is computed before execution and discarded with the run.
type Plan struct {
	root       *Node
	anyFocused bool
	willRun    map[*Node]bool
}

// Resolve computes which nodes actually run.
//
// Pass 1 scans the whole tree for any Focused marker. Pass 2 walks top-down
// with inherited ancestorExcluded / ancestorFocused flags:
//
//   - excluded (own marker or inherited) never runs, regardless of focus;
//   - absent any Focused node anywhere, every non-excluded node runs;
//   - otherwise a node runs iff it is Focused or a descendant of a Focused
//     suite.
//
// Exclusion overrides focus at any depth.
func Resolve(root *Node) *Plan {
	p := &Plan{root: root, willRun: make(map[*Node]bool)}

	root.Walk(func(node *Node, _ []*Node) {
		if node.Focus == FocusFocused {
			p.anyFocused = true
		}
	})

	p.resolve(root, false, false)
	return p
}

func (p *Plan) resolve(node *Node, ancestorExcluded, ancestorFocused bool) {
	excluded := ancestorExcluded || node.Focus == FocusExcluded
	focused := ancestorFocused || node.Focus == FocusFocused

	switch {
	case excluded:
		p.willRun[node] = false
	case !p.anyFocused:
		p.willRun[node] = true
	default:
		p.willRun[node] = focused
	}

	for _, child := range node.Children {
		p.resolve(child, excluded, focused)
	}
}

// Root returns the resolved tree's root.
func (p *Plan) Root() *Node {
	return p.root
}

// WillRun reports the resolved eligibility of node.
func (p *Plan) WillRun(node *Node) bool {
	return p.willRun[node]
}

// RunnableCases returns the number of case nodes that will run.
func (p *Plan) RunnableCases() int {
	count := 0
	p.root.Walk(func(node *Node, _ []*Node) {
		if node.Kind == KindCase && p.willRun[node] {
			count++
		}
	})
	return count
}
