package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepo_CRUD(t *testing.T) {
	repo := NewSQLiteTeamRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	team := testutil.NewTestTeam("Payments", testutil.WithTeamDescription("card flows"))
	require.NoError(t, repo.Create(ctx, team))

	got, err := repo.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payments", got.Name)
	assert.Equal(t, "card flows", got.Description)
	assert.Equal(t, team.CreatedAt.Unix(), got.CreatedAt.Unix())

	byName, err := repo.GetByName(ctx, "payments")
	require.NoError(t, err)
	assert.Equal(t, team.ID, byName.ID)

	team.Name = "Billing"
	require.NoError(t, repo.Update(ctx, team))
	got, err = repo.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Billing", got.Name)

	require.NoError(t, repo.Delete(ctx, team.ID))
	_, err = repo.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeamRepo_ListSortedByName(t *testing.T) {
	repo := NewSQLiteTeamRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Search", "Auth", "Mobile"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestTeam(name)))
	}

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, "Auth", teams[0].Name)
	assert.Equal(t, "Mobile", teams[1].Name)
	assert.Equal(t, "Search", teams[2].Name)
}

func TestTeamRepo_DuplicateName(t *testing.T) {
	repo := NewSQLiteTeamRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTeam("QA")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestTeam("QA")))
}

func TestTeamRepo_MissingRows(t *testing.T) {
	repo := NewSQLiteTeamRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestTeam("ghost")), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}
