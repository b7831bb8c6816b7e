package service

import (
	"context"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/importer"
)

type TeamService interface {
	Create(ctx context.Context, t *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	// Resolve finds a team by id or, failing that, by name.
	Resolve(ctx context.Context, idOrName string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Update(ctx context.Context, t *domain.Team) error
	// Delete removes the team together with its sets, sections and cases.
	Delete(ctx context.Context, id string) error
}

type TestCaseSetService interface {
	// Create stores the set and its Unassigned section together.
	Create(ctx context.Context, s *domain.TestCaseSet) error
	GetByID(ctx context.Context, id string) (*domain.TestCaseSet, error)
	ListByTeam(ctx context.Context, teamID string) ([]*domain.TestCaseSet, error)
	Update(ctx context.Context, s *domain.TestCaseSet) error
	Delete(ctx context.Context, id string) error
}

type SectionService interface {
	// List returns the set's sections flat, with direct test case counts.
	List(ctx context.Context, setID string) ([]*domain.Section, error)
	// Tree returns the set's root sections with Children and Level filled in.
	Tree(ctx context.Context, setID string) ([]*domain.Section, error)
	Create(ctx context.Context, s *domain.Section) error
	Rename(ctx context.Context, setID, id, name string) (*domain.Section, error)
	// Delete removes the section and its descendants. Their test cases
	// move to Unassigned; the count moved is returned.
	Delete(ctx context.Context, setID, id string) (int, error)
	Reorder(ctx context.Context, setID string, orders []domain.SectionOrder) error
}

type TestCaseService interface {
	// Create files the case under Unassigned when SectionID is empty.
	Create(ctx context.Context, c *domain.TestCase) error
	GetByID(ctx context.Context, id string) (*domain.TestCase, error)
	ListBySet(ctx context.Context, setID string) ([]*domain.TestCase, error)
	ListBySection(ctx context.Context, sectionID string) ([]*domain.TestCase, error)
	Update(ctx context.Context, c *domain.TestCase) error
	MoveToSection(ctx context.Context, id, sectionID string) (*domain.TestCase, error)
	Delete(ctx context.Context, id string) error
}

// ImportResult holds the outcome of a set import.
type ImportResult struct {
	Team          *domain.Team
	Set           *domain.TestCaseSet
	SectionCount  int
	TestCaseCount int
}

type ImportService interface {
	ImportSet(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSetFromSchema(ctx context.Context, schema *importer.SetSchema) (*ImportResult, error)
}
