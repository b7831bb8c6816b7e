package repository

import (
	"context"

	"github.com/alexanderramin/testdeck/internal/domain"
)

type TeamRepo interface {
	Create(ctx context.Context, t *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	GetByName(ctx context.Context, name string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Update(ctx context.Context, t *domain.Team) error
	Delete(ctx context.Context, id string) error
}

type TestCaseSetRepo interface {
	Create(ctx context.Context, s *domain.TestCaseSet) error
	GetByID(ctx context.Context, id string) (*domain.TestCaseSet, error)
	ListByTeam(ctx context.Context, teamID string) ([]*domain.TestCaseSet, error)
	Update(ctx context.Context, s *domain.TestCaseSet) error
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	Create(ctx context.Context, s *domain.Section) error
	GetByID(ctx context.Context, id string) (*domain.Section, error)
	// ListBySet returns every section of the set, flat, with TestCaseCount
	// populated, ordered by (sort_order, name).
	ListBySet(ctx context.Context, setID string) ([]*domain.Section, error)
	GetUnassigned(ctx context.Context, setID string) (*domain.Section, error)
	// SubtreeIDs returns id followed by the ids of all its descendants.
	SubtreeIDs(ctx context.Context, id string) ([]string, error)
	Update(ctx context.Context, s *domain.Section) error
	// ApplyOrder writes parent and sort_order for each tuple. Ids outside
	// the set fail with ErrNotFound.
	ApplyOrder(ctx context.Context, setID string, orders []domain.SectionOrder) error
	// Delete removes the section; its descendants go with it.
	Delete(ctx context.Context, id string) error
}

type TestCaseRepo interface {
	Create(ctx context.Context, c *domain.TestCase) error
	GetByID(ctx context.Context, id string) (*domain.TestCase, error)
	ListBySet(ctx context.Context, setID string) ([]*domain.TestCase, error)
	ListBySection(ctx context.Context, sectionID string) ([]*domain.TestCase, error)
	Update(ctx context.Context, c *domain.TestCase) error
	// MoveToSection reassigns every case in fromSectionIDs to toSectionID
	// and returns how many moved.
	MoveToSection(ctx context.Context, fromSectionIDs []string, toSectionID string) (int, error)
	Delete(ctx context.Context, id string) error
}
