package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateAndResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := &domain.Team{Name: "  Payments  "}
	require.NoError(t, env.teams.Create(ctx, team))
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, "Payments", team.Name)

	byID, err := env.teams.Resolve(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, byID.ID)

	byName, err := env.teams.Resolve(ctx, "payments")
	require.NoError(t, err)
	assert.Equal(t, team.ID, byName.ID)

	_, err = env.teams.Resolve(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTeamService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.teams.Create(ctx, &domain.Team{Name: " "}), ErrValidation)

	require.NoError(t, env.teams.Create(ctx, &domain.Team{Name: "QA"}))
	err := env.teams.Create(ctx, &domain.Team{Name: "qa"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "already exists")

	ev, ok := env.observer.last("create-team")
	require.True(t, ok)
	assert.False(t, ev.Success)
}

func TestTeamService_DeleteCascadesToSets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	set := env.newSet(t)

	require.NoError(t, env.teams.Delete(ctx, set.TeamID))

	_, err := env.sets.GetByID(ctx, set.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, env.teams.Delete(ctx, set.TeamID), repository.ErrNotFound)
}
