package sectiontree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// State is the lifecycle of an Editor's local copy.
type State int

const (
	StateClean State = iota
	StateDirty
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is the source of truth the editor loads from and saves to.
type Store interface {
	ListSections(ctx context.Context, setID string) ([]domain.Section, error)
	ReorderSections(ctx context.Context, setID string, orders []domain.SectionOrder) error
}

// Editor stages reorder operations on a flattened copy of one set's
// section tree until Save sends them as a single batch.
type Editor struct {
	mu     sync.Mutex
	setID  string
	store  Store
	logger *slog.Logger
	rows   Rows
	state  State
}

func NewEditor(setID string, store Store, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{setID: setID, store: store, logger: logger}
}

// Load replaces the local rows with the store's current tree.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSaving {
		e.mu.Unlock()
		return ErrSaveInProgress
	}
	e.mu.Unlock()

	rows, err := e.fetch(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = rows
	e.state = StateClean
	return nil
}

// Discard drops staged changes by reloading from the store.
func (e *Editor) Discard(ctx context.Context) error {
	return e.Load(ctx)
}

func (e *Editor) fetch(ctx context.Context) (Rows, error) {
	sections, err := e.store.ListSections(ctx, e.setID)
	if err != nil {
		return nil, fmt.Errorf("loading sections: %w", err)
	}
	tree, err := NewTree(sections)
	if err != nil {
		return nil, fmt.Errorf("building section tree: %w", err)
	}
	return tree.Flatten(), nil
}

func (e *Editor) SetID() string { return e.setID }

// Rows returns a snapshot of the staged list.
func (e *Editor) Rows() Rows {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.Clone()
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) MoveUp(i int) (int, error) {
	return e.mutate(i, Rows.MoveUp)
}

func (e *Editor) MoveDown(i int) (int, error) {
	return e.mutate(i, Rows.MoveDown)
}

func (e *Editor) Indent(i int) (int, error) {
	return e.mutate(i, func(r Rows, i int) (int, error) {
		return i, r.IncreaseLevel(i)
	})
}

func (e *Editor) Outdent(i int) (int, error) {
	return e.mutate(i, Rows.DecreaseLevel)
}

// MoveByID resolves a section id to its current row and applies op.
func (e *Editor) MoveByID(id string, op func(int) (int, error)) (int, error) {
	e.mu.Lock()
	i := e.rows.Index(id)
	e.mu.Unlock()
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	return op(i)
}

func (e *Editor) mutate(i int, op func(Rows, int) (int, error)) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSaving {
		return i, ErrSaveInProgress
	}
	next, err := op(e.rows, i)
	if err != nil {
		return i, err
	}
	e.state = StateDirty
	return next, nil
}

// Save sends the full staged list to the store. A clean editor has
// nothing to send. On failure the staged rows stay in place for a retry.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateSaving:
		e.mu.Unlock()
		return ErrSaveInProgress
	case StateClean:
		e.mu.Unlock()
		return nil
	}
	orders, err := e.rows.Relink()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.state = StateSaving
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "saving section order", "set_id", e.setID, "sections", len(orders))
	if err := e.store.ReorderSections(ctx, e.setID, orders); err != nil {
		e.mu.Lock()
		e.state = StateDirty
		e.mu.Unlock()
		e.logger.ErrorContext(ctx, "saving section order failed", "set_id", e.setID, "error", err)
		return fmt.Errorf("saving section order: %w", err)
	}

	rows, err := e.fetch(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		// The batch landed; only the refresh failed.
		e.state = StateClean
		return err
	}
	e.rows = rows
	e.state = StateClean
	return nil
}
