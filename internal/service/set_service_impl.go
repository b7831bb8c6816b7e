package service

import (
	"context"
	"time"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/google/uuid"
)

type testCaseSetService struct {
	teams    repository.TeamRepo
	sets     repository.TestCaseSetRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTestCaseSetService(
	teams repository.TeamRepo,
	sets repository.TestCaseSetRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TestCaseSetService {
	return &testCaseSetService{
		teams:    teams,
		sets:     sets,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *testCaseSetService) Create(ctx context.Context, set *domain.TestCaseSet) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"team_id": set.TeamID, "set": set.Name}
	defer func() { observe(ctx, s.observer, "create-set", startedAt, fields, err) }()

	if err := set.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	if set.ID == "" {
		set.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	unassigned := &domain.Section{
		ID:        uuid.New().String(),
		SetID:     set.ID,
		Name:      domain.UnassignedSectionName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTeamRepo(tx).GetByID(ctx, set.TeamID); err != nil {
			return err
		}
		if err := repository.NewSQLiteTestCaseSetRepo(tx).Create(ctx, set); err != nil {
			return err
		}
		return repository.NewSQLiteSectionRepo(tx).Create(ctx, unassigned)
	})
}

func (s *testCaseSetService) GetByID(ctx context.Context, id string) (*domain.TestCaseSet, error) {
	return s.sets.GetByID(ctx, id)
}

func (s *testCaseSetService) ListByTeam(ctx context.Context, teamID string) ([]*domain.TestCaseSet, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.sets.ListByTeam(ctx, teamID)
}

func (s *testCaseSetService) Update(ctx context.Context, set *domain.TestCaseSet) error {
	if err := set.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	set.UpdatedAt = time.Now().UTC()
	return s.sets.Update(ctx, set)
}

func (s *testCaseSetService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-set", startedAt, map[string]any{"set_id": id}, err) }()

	return s.sets.Delete(ctx, id)
}
