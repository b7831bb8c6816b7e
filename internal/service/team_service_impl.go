package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/google/uuid"
)

type teamService struct {
	teams    repository.TeamRepo
	observer UseCaseObserver
}

func NewTeamService(teams repository.TeamRepo, observers ...UseCaseObserver) TeamService {
	return &teamService{teams: teams, observer: useCaseObserverOrNoop(observers)}
}

func (s *teamService) Create(ctx context.Context, t *domain.Team) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "create-team", startedAt, map[string]any{"team": t.Name}, err) }()

	if err := t.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	if existing, err := s.teams.GetByName(ctx, t.Name); err == nil {
		return validationErrorf("team %q already exists (%s)", existing.Name, existing.ID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.teams.Create(ctx, t)
}

func (s *teamService) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return s.teams.GetByID(ctx, id)
}

func (s *teamService) Resolve(ctx context.Context, idOrName string) (*domain.Team, error) {
	t, err := s.teams.GetByID(ctx, idOrName)
	if errors.Is(err, repository.ErrNotFound) {
		return s.teams.GetByName(ctx, idOrName)
	}
	return t, err
}

func (s *teamService) List(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.List(ctx)
}

func (s *teamService) Update(ctx context.Context, t *domain.Team) error {
	if err := t.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	t.UpdatedAt = time.Now().UTC()
	return s.teams.Update(ctx, t)
}

func (s *teamService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-team", startedAt, map[string]any{"team_id": id}, err) }()

	return s.teams.Delete(ctx, id)
}
