package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/google/uuid"
)

type sectionService struct {
	sets     repository.TestCaseSetRepo
	sections repository.SectionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSectionService(
	sets repository.TestCaseSetRepo,
	sections repository.SectionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SectionService {
	return &sectionService{
		sets:     sets,
		sections: sections,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sectionService) List(ctx context.Context, setID string) ([]*domain.Section, error) {
	if _, err := s.sets.GetByID(ctx, setID); err != nil {
		return nil, err
	}
	return s.sections.ListBySet(ctx, setID)
}

func (s *sectionService) Tree(ctx context.Context, setID string) ([]*domain.Section, error) {
	sections, err := s.List(ctx, setID)
	if err != nil {
		return nil, err
	}
	tree, err := buildTree(sections)
	if err != nil {
		return nil, err
	}
	return tree.Nested(), nil
}

func (s *sectionService) Create(ctx context.Context, sec *domain.Section) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"set_id": sec.SetID, "section": sec.Name}
	defer func() { observe(ctx, s.observer, "create-section", startedAt, fields, err) }()

	name, err := domain.NormalizeSectionName(sec.Name)
	if err != nil {
		return validationErrorf("%v", err)
	}
	sec.Name = name
	if sec.ID == "" {
		sec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sec.CreatedAt = now
	sec.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTestCaseSetRepo(tx).GetByID(ctx, sec.SetID); err != nil {
			return err
		}
		repo := repository.NewSQLiteSectionRepo(tx)
		existing, err := repo.ListBySet(ctx, sec.SetID)
		if err != nil {
			return err
		}
		tree, err := buildTree(existing)
		if err != nil {
			return err
		}

		siblings := tree.Roots()
		if sec.ParentID != nil {
			parent, ok := tree.Node(*sec.ParentID)
			if !ok {
				return validationErrorf("parent section %s is not in set %s", *sec.ParentID, sec.SetID)
			}
			if parent.Unassigned() {
				return fmt.Errorf("%w: sections cannot be nested under it", ErrUnassignedLocked)
			}
			if parent.Level()+1 > domain.MaxSectionDepth {
				return validationErrorf("%v: sections may be nested at most %d levels deep",
					sectiontree.ErrMaxDepth, domain.MaxSectionDepth)
			}
			siblings = parent.Children
		}

		order := 0
		var unassigned *sectiontree.Node
		for _, n := range siblings {
			if n.Unassigned() {
				unassigned = n
				continue
			}
			order++
		}
		sec.SortOrder = order
		if err := repo.Create(ctx, sec); err != nil {
			return err
		}

		if unassigned != nil && unassigned.SortOrder != order+1 {
			return repo.ApplyOrder(ctx, sec.SetID, []domain.SectionOrder{
				{ID: unassigned.ID, SortOrder: order + 1},
			})
		}
		return nil
	})
}

func (s *sectionService) Rename(ctx context.Context, setID, id, name string) (*domain.Section, error) {
	name, err := domain.NormalizeSectionName(name)
	if err != nil {
		return nil, validationErrorf("%v", err)
	}
	sec, err := s.getInSet(ctx, s.sections, setID, id)
	if err != nil {
		return nil, err
	}
	if sec.IsUnassigned() {
		return nil, fmt.Errorf("%w: it cannot be renamed", ErrUnassignedLocked)
	}
	sec.Name = name
	sec.UpdatedAt = time.Now().UTC()
	if err := s.sections.Update(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *sectionService) Delete(ctx context.Context, setID, id string) (moved int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"set_id": setID, "section_id": id}
	defer func() { observe(ctx, s.observer, "delete-section", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSectionRepo(tx)
		sec, err := s.getInSet(ctx, repo, setID, id)
		if err != nil {
			return err
		}
		if sec.IsUnassigned() {
			return fmt.Errorf("%w: it cannot be deleted", ErrUnassignedLocked)
		}
		unassigned, err := repo.GetUnassigned(ctx, setID)
		if err != nil {
			return fmt.Errorf("set %s has no Unassigned section: %w", setID, err)
		}

		ids, err := repo.SubtreeIDs(ctx, id)
		if err != nil {
			return err
		}
		moved, err = repository.NewSQLiteTestCaseRepo(tx).MoveToSection(ctx, ids, unassigned.ID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		fields["subtree_size"] = len(ids)

		remaining, err := repo.ListBySet(ctx, setID)
		if err != nil {
			return err
		}
		tree, err := buildTree(remaining)
		if err != nil {
			return err
		}
		return repo.ApplyOrder(ctx, setID, orderChanges(tree.Flatten(), remaining))
	})
	fields["moved_test_cases"] = moved
	return moved, err
}

func (s *sectionService) Reorder(ctx context.Context, setID string, orders []domain.SectionOrder) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"set_id": setID, "tuples": len(orders)}
	defer func() { observe(ctx, s.observer, "reorder-sections", startedAt, fields, err) }()

	if len(orders) == 0 {
		return nil
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTestCaseSetRepo(tx).GetByID(ctx, setID); err != nil {
			return err
		}
		repo := repository.NewSQLiteSectionRepo(tx)
		current, err := repo.ListBySet(ctx, setID)
		if err != nil {
			return err
		}

		proposed := make(map[string]*domain.Section, len(current))
		for _, sec := range current {
			cp := *sec
			proposed[sec.ID] = &cp
		}

		seen := make(map[string]bool, len(orders))
		for _, o := range orders {
			if seen[o.ID] {
				return validationErrorf("section %s appears more than once", o.ID)
			}
			seen[o.ID] = true

			sec, ok := proposed[o.ID]
			if !ok {
				return validationErrorf("section %s is not in set %s", o.ID, setID)
			}
			if sec.IsUnassigned() && !domain.SameParent(sec.ParentID, o.ParentSectionID) {
				return fmt.Errorf("%w: it must stay at the top level", ErrUnassignedLocked)
			}
			if o.ParentSectionID != nil {
				parent, ok := proposed[*o.ParentSectionID]
				if !ok {
					return validationErrorf("parent section %s is not in set %s", *o.ParentSectionID, setID)
				}
				if parent.IsUnassigned() {
					return fmt.Errorf("%w: sections cannot be nested under it", ErrUnassignedLocked)
				}
				pid := parent.ID
				sec.ParentID = &pid
			} else {
				sec.ParentID = nil
			}
			sec.SortOrder = o.SortOrder
		}

		values := make([]*domain.Section, 0, len(current))
		for _, sec := range current {
			values = append(values, proposed[sec.ID])
		}
		tree, err := buildTree(values)
		if err != nil {
			if errors.Is(err, sectiontree.ErrCycle) {
				return validationErrorf("%v", err)
			}
			return err
		}

		rows := tree.Flatten()
		for _, r := range rows {
			if r.Level > domain.MaxSectionDepth {
				return validationErrorf("%v: %q would sit at level %d", sectiontree.ErrMaxDepth, r.Name, r.Level)
			}
		}

		changes := orderChanges(rows, current)
		fields["changed"] = len(changes)
		return repo.ApplyOrder(ctx, setID, changes)
	})
}

// getInSet loads a section and reports ErrNotFound when it belongs to a
// different set.
func (s *sectionService) getInSet(ctx context.Context, repo repository.SectionRepo, setID, id string) (*domain.Section, error) {
	sec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sec.SetID != setID {
		return nil, fmt.Errorf("section %s in set %s: %w", id, setID, repository.ErrNotFound)
	}
	return sec, nil
}

func buildTree(sections []*domain.Section) (*sectiontree.Tree, error) {
	values := make([]domain.Section, len(sections))
	for i, sec := range sections {
		values[i] = *sec
	}
	return sectiontree.NewTree(values)
}

// orderChanges lists the rows whose parent or dense sort order differs
// from what is stored.
func orderChanges(rows sectiontree.Rows, stored []*domain.Section) []domain.SectionOrder {
	byID := make(map[string]*domain.Section, len(stored))
	for _, sec := range stored {
		byID[sec.ID] = sec
	}
	var changes []domain.SectionOrder
	for _, r := range rows {
		old, ok := byID[r.ID]
		if ok && old.SortOrder == r.SortOrder && domain.SameParent(old.ParentID, r.ParentID) {
			continue
		}
		changes = append(changes, domain.SectionOrder{
			ID:              r.ID,
			ParentSectionID: r.ParentID,
			SortOrder:       r.SortOrder,
		})
	}
	return changes
}
