package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseSetRepo_CRUD(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	team := testutil.NewTestTeam("Payments")
	require.NoError(t, NewSQLiteTeamRepo(conn).Create(ctx, team))
	repo := NewSQLiteTestCaseSetRepo(conn)

	set := testutil.NewTestSet(team.ID, "Regression", testutil.AsDefaultSet())
	set.Description = "full pass before release"
	require.NoError(t, repo.Create(ctx, set))

	got, err := repo.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Regression", got.Name)
	assert.Equal(t, "full pass before release", got.Description)
	assert.True(t, got.IsDefault)

	set.Name = "Release regression"
	set.IsDefault = false
	require.NoError(t, repo.Update(ctx, set))
	got, err = repo.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Release regression", got.Name)
	assert.False(t, got.IsDefault)

	require.NoError(t, repo.Delete(ctx, set.ID))
	_, err = repo.GetByID(ctx, set.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, set.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, set), ErrNotFound)
}

func TestTestCaseSetRepo_ListDefaultFirst(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	team := testutil.NewTestTeam("Mobile")
	require.NoError(t, NewSQLiteTeamRepo(conn).Create(ctx, team))
	repo := NewSQLiteTestCaseSetRepo(conn)

	require.NoError(t, repo.Create(ctx, testutil.NewTestSet(team.ID, "Accessibility")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSet(team.ID, "Smoke", testutil.AsDefaultSet())))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSet(team.ID, "Exploratory")))

	sets, err := repo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "Smoke", sets[0].Name)
	assert.Equal(t, "Accessibility", sets[1].Name)
	assert.Equal(t, "Exploratory", sets[2].Name)

	assert.Error(t, repo.Create(ctx, testutil.NewTestSet(team.ID, "Smoke")), "names are unique per team")

	other, err := repo.ListByTeam(ctx, "no-such-team")
	require.NoError(t, err)
	assert.Empty(t, other)
}
