package sectiontree

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/stretchr/testify/require"
)

func sec(id, name, parent string, order int) domain.Section {
	return domain.Section{ID: id, SetID: "set-1", Name: name, ParentID: domain.StrPtr(parent), SortOrder: order}
}

// sampleSections builds A > [B, C], C > [D], plus roots E and Unassigned.
func sampleSections() []domain.Section {
	return []domain.Section{
		sec("u", domain.UnassignedSectionName, "", 0),
		sec("e", "E", "", 1),
		sec("a", "A", "", 0),
		sec("c", "C", "a", 1),
		sec("b", "B", "a", 0),
		sec("d", "D", "c", 0),
	}
}

func sampleRows(t *testing.T) Rows {
	t.Helper()
	tree, err := NewTree(sampleSections())
	require.NoError(t, err)
	return tree.Flatten()
}

// chainSections builds s1 > s2 > s3 > s4 > [s5a, s5b] plus a root x > y.
func chainSections() []domain.Section {
	return []domain.Section{
		sec("s1", "S1", "", 0),
		sec("s2", "S2", "s1", 0),
		sec("s3", "S3", "s2", 0),
		sec("s4", "S4", "s3", 0),
		sec("s5a", "S5a", "s4", 0),
		sec("s5b", "S5b", "s4", 1),
		sec("x", "X", "", 1),
		sec("y", "Y", "x", 0),
	}
}

type levelView struct {
	ID    string
	Level int
}

func levels(r Rows) []levelView {
	out := make([]levelView, len(r))
	for i, row := range r {
		out[i] = levelView{ID: row.ID, Level: row.Level}
	}
	return out
}

// randomSections generates a forest of n sections no deeper than maxDepth,
// with shuffled sort orders.
func randomSections(rng *rand.Rand, n int) []domain.Section {
	depth := make(map[string]int, n)
	out := make([]domain.Section, 0, n+1)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%02d", i)
		parent := ""
		if i > 0 && rng.IntN(3) > 0 {
			candidate := fmt.Sprintf("n%02d", rng.IntN(i))
			if depth[candidate] < domain.MaxSectionDepth {
				parent = candidate
			}
		}
		depth[id] = depth[parent] + 1
		out = append(out, sec(id, fmt.Sprintf("Section %d", rng.IntN(5)), parent, rng.IntN(4)))
	}
	out = append(out, sec("unassigned", domain.UnassignedSectionName, "", 0))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// memStore is an in-memory Store that applies reorder batches to its rows.
type memStore struct {
	mu       sync.Mutex
	sections []domain.Section
	batches  [][]domain.SectionOrder
	failNext error
	block    chan struct{}
	entered  chan struct{}
}

func newMemStore(sections []domain.Section) *memStore {
	return &memStore{sections: sections}
}

func (m *memStore) ListSections(_ context.Context, setID string) ([]domain.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Section, 0, len(m.sections))
	for _, s := range m.sections {
		if s.SetID == setID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ReorderSections(ctx context.Context, _ string, orders []domain.SectionOrder) error {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.batches = append(m.batches, orders)
	for _, o := range orders {
		for i := range m.sections {
			if m.sections[i].ID == o.ID {
				m.sections[i].ParentID = o.ParentSectionID
				m.sections[i].SortOrder = o.SortOrder
			}
		}
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
