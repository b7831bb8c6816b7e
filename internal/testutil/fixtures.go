package testutil

import (
	"time"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/google/uuid"
)

// Team options
type TeamOption func(*domain.Team)

func WithTeamDescription(d string) TeamOption {
	return func(t *domain.Team) {
		t.Description = d
	}
}

func NewTestTeam(name string, opts ...TeamOption) *domain.Team {
	now := time.Now().UTC()
	t := &domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Set options
type SetOption func(*domain.TestCaseSet)

func AsDefaultSet() SetOption {
	return func(s *domain.TestCaseSet) {
		s.IsDefault = true
	}
}

func NewTestSet(teamID, name string, opts ...SetOption) *domain.TestCaseSet {
	now := time.Now().UTC()
	s := &domain.TestCaseSet{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Section options
type SectionOption func(*domain.Section)

func WithSectionParent(id string) SectionOption {
	return func(s *domain.Section) {
		s.ParentID = &id
	}
}

func WithSortOrder(n int) SectionOption {
	return func(s *domain.Section) {
		s.SortOrder = n
	}
}

func NewTestSection(setID, name string, opts ...SectionOption) *domain.Section {
	now := time.Now().UTC()
	s := &domain.Section{
		ID:        uuid.New().String(),
		SetID:     setID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestUnassigned builds the reserved section of a set.
func NewTestUnassigned(setID string) *domain.Section {
	return NewTestSection(setID, domain.UnassignedSectionName)
}

// Test case options
type CaseOption func(*domain.TestCase)

func WithPriority(p domain.Priority) CaseOption {
	return func(c *domain.TestCase) {
		c.Priority = p
	}
}

func WithTCGTicket(ticket string) CaseOption {
	return func(c *domain.TestCase) {
		c.TCGTicket = ticket
	}
}

func NewTestCase(setID, sectionID, title string, opts ...CaseOption) *domain.TestCase {
	now := time.Now().UTC()
	c := &domain.TestCase{
		ID:        uuid.New().String(),
		SetID:     setID,
		SectionID: sectionID,
		Title:     title,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
