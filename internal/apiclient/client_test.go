package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/testdeck/internal/api"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/alexanderramin/testdeck/internal/service"
	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBackend serves the real router over a fresh in-memory database.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	teams := repository.NewSQLiteTeamRepo(database)
	sets := repository.NewSQLiteTestCaseSetRepo(database)
	sections := repository.NewSQLiteSectionRepo(database)
	cases := repository.NewSQLiteTestCaseRepo(database)
	handler := api.NewRouter(api.Services{
		Teams:    service.NewTeamService(teams),
		Sets:     service.NewTestCaseSetService(teams, sets, uow),
		Sections: service.NewSectionService(sets, sections, uow),
		Cases:    service.NewTestCaseService(cases, sections),
		Import:   service.NewImportService(uow),
	}, api.Options{Token: testToken, Logger: quietLogger()})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) (*Client, string) {
	t.Helper()
	srv := newBackend(t)
	c := New(srv.URL+"/", testToken, WithHTTPClient(srv.Client()), WithLogger(quietLogger()))

	ctx := context.Background()
	team, err := c.CreateTeam(ctx, "QA", "")
	require.NoError(t, err)
	set, err := c.CreateSet(ctx, team.ID, "Regression", "")
	require.NoError(t, err)
	return c, set.ID
}

func TestClient_TeamsAndSets(t *testing.T) {
	c, setID := newClient(t)
	ctx := context.Background()

	teams, err := c.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "QA", teams[0].Name)

	sets, err := c.ListSets(ctx, teams[0].ID)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, setID, sets[0].ID)
}

func TestClient_SectionLifecycle(t *testing.T) {
	c, setID := newClient(t)
	ctx := context.Background()

	login, err := c.CreateSection(ctx, setID, "Login", nil)
	require.NoError(t, err)
	sso, err := c.CreateSection(ctx, setID, "SSO", &login.ID)
	require.NoError(t, err)
	assert.Equal(t, login.ID, *sso.ParentID)

	renamed, err := c.RenameSection(ctx, setID, sso.ID, "Single sign-on")
	require.NoError(t, err)
	assert.Equal(t, "Single sign-on", renamed.Name)

	tree, err := c.SectionTree(ctx, setID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, 2, tree[0].Children[0].Level)
	assert.True(t, tree[1].IsUnassigned())

	moved, err := c.DeleteSection(ctx, setID, login.ID)
	require.NoError(t, err)
	assert.Zero(t, moved)

	flat, err := c.ListSections(ctx, setID)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.True(t, flat[0].IsUnassigned())
}

func TestClient_ErrorClassification(t *testing.T) {
	c, setID := newClient(t)
	ctx := context.Background()

	_, err := c.RenameSection(ctx, setID, "missing", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.True(t, apiErr.IsValidation())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = c.CreateSection(ctx, setID, " ", nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	flat, err := c.ListSections(ctx, setID)
	require.NoError(t, err)
	_, err = c.DeleteSection(ctx, setID, flat[0].ID)
	assert.ErrorIs(t, err, service.ErrUnassignedLocked)

	unauthorized := New(c.baseURL, "wrong", WithHTTPClient(c.http), WithLogger(quietLogger()))
	_, err = unauthorized.ListTeams(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "bearer token")
}

func TestClient_ServerErrorIsNotValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, "", WithLogger(quietLogger())).ListTeams(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.IsValidation())
	assert.Equal(t, "boom", apiErr.Detail)
	assert.NotErrorIs(t, err, service.ErrValidation)
}

func TestClient_NetworkFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	c := New(srv.URL, "", WithLogger(quietLogger()))

	_, err := c.ListTeams(context.Background())
	assert.ErrorIs(t, err, ErrNetwork, "undecodable body")

	srv.Close()
	_, err = c.ListTeams(context.Background())
	assert.ErrorIs(t, err, ErrNetwork, "closed server")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestSectionStore_DrivesEditor(t *testing.T) {
	c, setID := newClient(t)
	ctx := context.Background()

	a, err := c.CreateSection(ctx, setID, "A", nil)
	require.NoError(t, err)
	b, err := c.CreateSection(ctx, setID, "B", nil)
	require.NoError(t, err)

	ed := sectiontree.NewEditor(setID, SectionStore{Client: c}, quietLogger())
	require.NoError(t, ed.Load(ctx))

	_, err = ed.MoveByID(b.ID, ed.Indent)
	require.NoError(t, err)
	assert.Equal(t, sectiontree.StateDirty, ed.State())
	require.NoError(t, ed.Save(ctx))
	assert.Equal(t, sectiontree.StateClean, ed.State())

	tree, err := RemoteSections{Client: c}.Tree(ctx, setID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, a.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, b.ID, tree[0].Children[0].ID)
}

func TestRemoteSections_Create(t *testing.T) {
	c, setID := newClient(t)
	sec := &domain.Section{SetID: setID, Name: "Checkout"}
	require.NoError(t, RemoteSections{Client: c}.Create(context.Background(), sec))
	assert.NotEmpty(t, sec.ID)
	assert.Equal(t, 0, sec.SortOrder)
}
