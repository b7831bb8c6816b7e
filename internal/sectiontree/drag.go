package sectiontree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// DropType says where a dragged section lands relative to the drop target.
type DropType string

const (
	DropBefore DropType = "before"
	DropAfter  DropType = "after"
	DropInside DropType = "inside"
)

// ParseDropType accepts before|after|inside, case-insensitively.
func ParseDropType(s string) (DropType, error) {
	switch d := DropType(strings.ToLower(strings.TrimSpace(s))); d {
	case DropBefore, DropAfter, DropInside:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q (use before|after|inside)", ErrInvalidDrop, s)
	}
}

// ApplyDrag moves the dragged section relative to the target and returns
// the reorder tuples for every sibling group it touched (source group
// first). On error the tree is left untouched.
func (t *Tree) ApplyDrag(draggedID, targetID string, drop DropType) ([]domain.SectionOrder, error) {
	dragged, ok := t.byID[draggedID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, draggedID)
	}
	target, ok := t.byID[targetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, targetID)
	}
	if _, err := ParseDropType(string(drop)); err != nil {
		return nil, err
	}
	if dragged.Unassigned() {
		return nil, ErrUnassignedLocked
	}
	if draggedID == targetID || t.IsAncestor(draggedID, targetID) {
		return nil, fmt.Errorf("%w: %q onto %q", ErrCycle, dragged.Name, target.Name)
	}

	var newParent *Node
	switch drop {
	case DropInside:
		if target.Unassigned() {
			return nil, ErrUnassignedLocked
		}
		newParent = target
	case DropAfter:
		if target.Unassigned() {
			return nil, ErrUnassignedLocked
		}
		newParent = target.Parent
	case DropBefore:
		newParent = target.Parent
	}

	newLevel := 1
	if newParent != nil {
		newLevel = newParent.Level() + 1
	}
	if deepest := newLevel + dragged.Height() - 1; deepest > domain.MaxSectionDepth {
		return nil, fmt.Errorf("%w: %q would reach level %d (max %d)", ErrMaxDepth, dragged.Name, deepest, domain.MaxSectionDepth)
	}

	oldParent := dragged.Parent
	source := slices.DeleteFunc(slices.Clone(t.siblings(oldParent)), func(n *Node) bool { return n == dragged })

	dest := source
	if newParent != oldParent {
		dest = slices.Clone(t.siblings(newParent))
	}

	var at int
	switch drop {
	case DropInside:
		at = len(dest)
		if at > 0 && dest[at-1].Unassigned() {
			at--
		}
	case DropBefore:
		at = slices.Index(dest, target)
	case DropAfter:
		at = slices.Index(dest, target) + 1
	}
	dest = slices.Insert(dest, at, dragged)

	dragged.Parent = newParent
	var payload []domain.SectionOrder
	if newParent != oldParent {
		t.setSiblings(oldParent, source)
		payload = append(payload, renumber(source)...)
	}
	t.setSiblings(newParent, dest)
	payload = append(payload, renumber(dest)...)
	return payload, nil
}

// renumber assigns dense sort orders to a sibling group and returns the
// matching reorder tuples.
func renumber(nodes []*Node) []domain.SectionOrder {
	out := make([]domain.SectionOrder, 0, len(nodes))
	for i, n := range nodes {
		n.SortOrder = i
		out = append(out, domain.SectionOrder{
			ID:              n.ID,
			ParentSectionID: n.ParentID(),
			SortOrder:       i,
		})
	}
	return out
}
