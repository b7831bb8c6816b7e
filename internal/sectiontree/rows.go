package sectiontree

import (
	"fmt"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// Row is one line of the flattened, level-annotated section list.
// ParentID and SortOrder always describe the current row order; every
// mutating method recomputes them. Mutating methods refuse a list whose
// level sequence is not well formed with ErrInvalidLevels and leave it
// untouched.
type Row struct {
	ID            string
	Name          string
	Level         int
	ParentID      *string
	SortOrder     int
	TestCaseCount int
	Unassigned    bool
}

// Rows is a depth-first flattened forest: a row's parent is the nearest
// preceding row one level shallower.
type Rows []Row

// Clone returns an independent copy of r.
func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	copy(out, r)
	for i := range out {
		if out[i].ParentID != nil {
			p := *out[i].ParentID
			out[i].ParentID = &p
		}
	}
	return out
}

// Index returns the position of the row with the given id, or -1.
func (r Rows) Index(id string) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}

// Relink derives parent links and dense zero-based sibling order from the
// level sequence alone.
func (r Rows) Relink() ([]domain.SectionOrder, error) {
	out := make([]domain.SectionOrder, len(r))
	ancestors := make([]string, 0, domain.MaxSectionDepth)
	counts := make(map[string]int)
	roots := 0

	for i, row := range r {
		if row.Level < 1 || row.Level > len(ancestors)+1 {
			return nil, fmt.Errorf("%w: row %d (%s) at level %d", ErrInvalidLevels, i, row.ID, row.Level)
		}
		ancestors = ancestors[:row.Level-1]

		order := domain.SectionOrder{ID: row.ID}
		if row.Level == 1 {
			order.SortOrder = roots
			roots++
		} else {
			parentID := ancestors[row.Level-2]
			order.ParentSectionID = &parentID
			order.SortOrder = counts[parentID]
			counts[parentID]++
		}
		out[i] = order
		ancestors = append(ancestors, row.ID)
	}
	return out, nil
}

// Parents maps every row id to its parent id (nil for roots).
func (r Rows) Parents() (map[string]*string, error) {
	orders, err := r.Relink()
	if err != nil {
		return nil, err
	}
	parents := make(map[string]*string, len(orders))
	for _, o := range orders {
		parents[o.ID] = o.ParentSectionID
	}
	return parents, nil
}

// SubtreeEnd returns the index just past the subtree rooted at row i.
func (r Rows) SubtreeEnd(i int) int {
	j := i + 1
	for j < len(r) && r[j].Level > r[i].Level {
		j++
	}
	return j
}

func (r Rows) prevSibling(i int) int {
	for j := i - 1; j >= 0; j-- {
		switch {
		case r[j].Level == r[i].Level:
			return j
		case r[j].Level < r[i].Level:
			return -1
		}
	}
	return -1
}

func (r Rows) nextSibling(i int) int {
	k := r.SubtreeEnd(i)
	if k < len(r) && r[k].Level == r[i].Level {
		return k
	}
	return -1
}

func (r Rows) inRange(i int) bool {
	return i >= 0 && i < len(r)
}

// check guards a mutation of row i.
func (r Rows) check(i int) error {
	if !r.inRange(i) {
		return ErrIndexOutOfRange
	}
	_, err := r.Relink()
	return err
}

// CanMoveUp reports whether MoveUp(i) would change the list.
func (r Rows) CanMoveUp(i int) bool {
	if !r.inRange(i) || r[i].Unassigned {
		return false
	}
	j := r.prevSibling(i)
	return j >= 0 && !r[j].Unassigned
}

// CanMoveDown reports whether MoveDown(i) would change the list.
func (r Rows) CanMoveDown(i int) bool {
	if !r.inRange(i) || r[i].Unassigned {
		return false
	}
	k := r.nextSibling(i)
	return k >= 0 && !r[k].Unassigned
}

// MoveUp swaps the subtree at i with the previous same-level sibling's
// subtree and returns the row's new index.
func (r Rows) MoveUp(i int) (int, error) {
	if err := r.check(i); err != nil {
		return i, err
	}
	if r[i].Unassigned {
		return i, ErrUnassignedLocked
	}
	j := r.prevSibling(i)
	if j < 0 {
		return i, ErrNoSibling
	}
	if r[j].Unassigned {
		return i, ErrUnassignedLocked
	}
	rotateLeft(r[j:r.SubtreeEnd(i)], i-j)
	return j, r.refresh()
}

// MoveDown swaps the subtree at i with the next same-level sibling's
// subtree and returns the row's new index.
func (r Rows) MoveDown(i int) (int, error) {
	if err := r.check(i); err != nil {
		return i, err
	}
	if r[i].Unassigned {
		return i, ErrUnassignedLocked
	}
	k := r.nextSibling(i)
	if k < 0 {
		return i, ErrNoSibling
	}
	if r[k].Unassigned {
		return i, ErrUnassignedLocked
	}
	end := r.SubtreeEnd(k)
	rotateLeft(r[i:end], k-i)
	return i + (end - k), r.refresh()
}

// IncreaseLevel nests the subtree at i under the nearest preceding row
// whose level is not deeper than its own. That row must sit at the same
// level; a shallower one is already the parent and nothing changes.
func (r Rows) IncreaseLevel(i int) error {
	if err := r.check(i); err != nil {
		return err
	}
	if r[i].Unassigned {
		return ErrUnassignedLocked
	}

	anchor := -1
	for j := i - 1; j >= 0; j-- {
		if r[j].Level <= r[i].Level {
			anchor = j
			break
		}
	}
	if anchor < 0 || r[anchor].Level < r[i].Level {
		return ErrNoIndentAnchor
	}
	if r[anchor].Unassigned {
		return ErrUnassignedLocked
	}

	end := r.SubtreeEnd(i)
	deepest := 0
	for k := i; k < end; k++ {
		deepest = max(deepest, r[k].Level)
	}
	if deepest+1 > domain.MaxSectionDepth {
		return fmt.Errorf("%w: %q would reach level %d (max %d)", ErrMaxDepth, r[i].Name, deepest+1, domain.MaxSectionDepth)
	}

	for k := i; k < end; k++ {
		r[k].Level++
	}
	return r.refresh()
}

// DecreaseLevel lifts the subtree at i out of its parent so it becomes the
// parent's next sibling, and returns the row's new index.
func (r Rows) DecreaseLevel(i int) (int, error) {
	if err := r.check(i); err != nil {
		return i, err
	}
	if r[i].Unassigned {
		return i, ErrUnassignedLocked
	}
	if r[i].Level <= 1 {
		return i, ErrTopLevel
	}

	parent := i - 1
	for parent >= 0 && r[parent].Level >= r[i].Level {
		parent--
	}
	if parent < 0 {
		return i, fmt.Errorf("%w: row %d has no parent", ErrInvalidLevels, i)
	}

	end := r.SubtreeEnd(i)
	parentEnd := r.SubtreeEnd(parent)
	for k := i; k < end; k++ {
		r[k].Level--
	}
	size := end - i
	rotateLeft(r[i:parentEnd], size)
	return parentEnd - size, r.refresh()
}

// refresh rewrites ParentID and SortOrder after a structural change.
func (r Rows) refresh() error {
	orders, err := r.Relink()
	if err != nil {
		return err
	}
	for i := range r {
		r[i].ParentID = orders[i].ParentSectionID
		r[i].SortOrder = orders[i].SortOrder
	}
	return nil
}

func rotateLeft(s Rows, n int) {
	if n <= 0 || n >= len(s) {
		return
	}
	tmp := make(Rows, 0, len(s))
	tmp = append(tmp, s[n:]...)
	tmp = append(tmp, s[:n]...)
	copy(s, tmp)
}
