package sectiontree

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// Node is one section inside a Tree.
type Node struct {
	ID            string
	SetID         string
	Name          string
	SortOrder     int
	TestCaseCount int
	Parent        *Node
	Children      []*Node
}

func (n *Node) Unassigned() bool {
	return n.Name == domain.UnassignedSectionName
}

// ParentID returns the parent's id, or nil for a root.
func (n *Node) ParentID() *string {
	if n.Parent == nil {
		return nil
	}
	id := n.Parent.ID
	return &id
}

// Level is the 1-based depth of n.
func (n *Node) Level() int {
	level := 1
	for p := n.Parent; p != nil; p = p.Parent {
		level++
	}
	return level
}

// Height is the number of levels in the subtree rooted at n (1 for a leaf).
func (n *Node) Height() int {
	h := 0
	for _, c := range n.Children {
		h = max(h, c.Height())
	}
	return h + 1
}

// TotalTestCases sums the test case counts of n and its descendants.
func (n *Node) TotalTestCases() int {
	total := n.TestCaseCount
	for _, c := range n.Children {
		total += c.TotalTestCases()
	}
	return total
}

// Tree is a client-held copy of a test case set's section forest.
type Tree struct {
	roots []*Node
	byID  map[string]*Node
}

// NewTree links flat section records into a forest. Every parent id must
// resolve to a section in the input and the parent chains must be acyclic.
func NewTree(sections []domain.Section) (*Tree, error) {
	t := &Tree{byID: make(map[string]*Node, len(sections))}

	unassigned := 0
	for _, s := range sections {
		if _, dup := t.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSection, s.ID)
		}
		n := &Node{
			ID:            s.ID,
			SetID:         s.SetID,
			Name:          s.Name,
			SortOrder:     s.SortOrder,
			TestCaseCount: s.TestCaseCount,
		}
		if n.Unassigned() {
			unassigned++
		}
		t.byID[s.ID] = n
	}
	if unassigned > 1 {
		return nil, ErrMultipleUnassigned
	}

	for _, s := range sections {
		n := t.byID[s.ID]
		if s.ParentID == nil {
			t.roots = append(t.roots, n)
			continue
		}
		parent, ok := t.byID[*s.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s references %s", ErrOrphanSection, s.ID, *s.ParentID)
		}
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	// Sections on a parent cycle are never reachable from a root.
	reached := 0
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		sortSiblings(nodes)
		for _, n := range nodes {
			reached++
			walk(n.Children)
		}
	}
	walk(t.roots)
	if reached != len(t.byID) {
		return nil, fmt.Errorf("%w: %d sections are not reachable from a root", ErrCycle, len(t.byID)-reached)
	}

	return t, nil
}

// sortSiblings orders a sibling group by (sort_order, name) with the
// Unassigned section pinned last.
func sortSiblings(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if a.Unassigned() != b.Unassigned() {
			if a.Unassigned() {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

func (t *Tree) Roots() []*Node { return t.roots }

func (t *Tree) Len() int { return len(t.byID) }

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Flatten walks the forest depth first and annotates each row with its
// level. Sort orders in the result are dense per sibling group.
func (t *Tree) Flatten() Rows {
	rows := make(Rows, 0, len(t.byID))
	var walk func(nodes []*Node, level int)
	walk = func(nodes []*Node, level int) {
		for _, n := range nodes {
			rows = append(rows, Row{
				ID:            n.ID,
				Name:          n.Name,
				Level:         level,
				ParentID:      n.ParentID(),
				SortOrder:     n.SortOrder,
				TestCaseCount: n.TestCaseCount,
				Unassigned:    n.Unassigned(),
			})
			walk(n.Children, level+1)
		}
	}
	walk(t.roots, 1)
	// A depth-first walk always yields a well-formed level sequence.
	_ = rows.refresh()
	return rows
}

// Nested returns the forest as domain sections with Children and Level set.
func (t *Tree) Nested() []*domain.Section {
	var build func(nodes []*Node, level int) []*domain.Section
	build = func(nodes []*Node, level int) []*domain.Section {
		out := make([]*domain.Section, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, &domain.Section{
				ID:            n.ID,
				SetID:         n.SetID,
				Name:          n.Name,
				ParentID:      n.ParentID(),
				SortOrder:     n.SortOrder,
				TestCaseCount: n.TestCaseCount,
				Level:         level,
				Children:      build(n.Children, level+1),
			})
		}
		return out
	}
	return build(t.roots, 1)
}

// IsAncestor reports whether ancestorID appears on the parent chain of id.
func (t *Tree) IsAncestor(ancestorID, id string) bool {
	n, ok := t.byID[id]
	if !ok {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.ID == ancestorID {
			return true
		}
	}
	return false
}

func (t *Tree) siblings(parent *Node) []*Node {
	if parent == nil {
		return t.roots
	}
	return parent.Children
}

func (t *Tree) setSiblings(parent *Node, nodes []*Node) {
	if parent == nil {
		t.roots = nodes
		return
	}
	parent.Children = nodes
}
