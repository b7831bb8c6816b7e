package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/google/uuid"
)

type testCaseService struct {
	cases    repository.TestCaseRepo
	sections repository.SectionRepo
	observer UseCaseObserver
}

func NewTestCaseService(cases repository.TestCaseRepo, sections repository.SectionRepo, observers ...UseCaseObserver) TestCaseService {
	return &testCaseService{cases: cases, sections: sections, observer: useCaseObserverOrNoop(observers)}
}

func (s *testCaseService) Create(ctx context.Context, c *domain.TestCase) error {
	if err := c.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	if c.SectionID == "" {
		unassigned, err := s.sections.GetUnassigned(ctx, c.SetID)
		if err != nil {
			return fmt.Errorf("set %s has no Unassigned section: %w", c.SetID, err)
		}
		c.SectionID = unassigned.ID
	} else if err := s.checkSection(ctx, c.SetID, c.SectionID); err != nil {
		return err
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.cases.Create(ctx, c)
}

func (s *testCaseService) GetByID(ctx context.Context, id string) (*domain.TestCase, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *testCaseService) ListBySet(ctx context.Context, setID string) ([]*domain.TestCase, error) {
	return s.cases.ListBySet(ctx, setID)
}

func (s *testCaseService) ListBySection(ctx context.Context, sectionID string) ([]*domain.TestCase, error) {
	return s.cases.ListBySection(ctx, sectionID)
}

func (s *testCaseService) Update(ctx context.Context, c *domain.TestCase) error {
	if err := c.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	if err := s.checkSection(ctx, c.SetID, c.SectionID); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.cases.Update(ctx, c)
}

func (s *testCaseService) MoveToSection(ctx context.Context, id, sectionID string) (tc *domain.TestCase, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"test_case_id": id, "section_id": sectionID}
	defer func() { observe(ctx, s.observer, "move-test-case", startedAt, fields, err) }()

	tc, err = s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSection(ctx, tc.SetID, sectionID); err != nil {
		return nil, err
	}
	tc.SectionID = sectionID
	tc.UpdatedAt = time.Now().UTC()
	if err := s.cases.Update(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *testCaseService) Delete(ctx context.Context, id string) error {
	return s.cases.Delete(ctx, id)
}

func (s *testCaseService) checkSection(ctx context.Context, setID, sectionID string) error {
	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if sec.SetID != setID {
		return validationErrorf("section %s belongs to a different test case set", sectionID)
	}
	return nil
}
