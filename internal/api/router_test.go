package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/service"
	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTestServices wires every service over a fresh in-memory database.
func newTestServices(t *testing.T) Services {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	teams := repository.NewSQLiteTeamRepo(database)
	sets := repository.NewSQLiteTestCaseSetRepo(database)
	sections := repository.NewSQLiteSectionRepo(database)
	cases := repository.NewSQLiteTestCaseRepo(database)
	return Services{
		Teams:    service.NewTeamService(teams),
		Sets:     service.NewTestCaseSetService(teams, sets, uow),
		Sections: service.NewSectionService(sets, sections, uow),
		Cases:    service.NewTestCaseService(cases, sections),
		Import:   service.NewImportService(uow),
	}
}

type testClient struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newTestClient(t *testing.T, token string) *testClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(newTestServices(t), Options{Token: token, Logger: logger}))
	t.Cleanup(srv.Close)
	return &testClient{t: t, srv: srv, token: token}
}

// do sends body (JSON encoded unless it is a string) and decodes the
// response into out when out is non-nil.
func (c *testClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rd)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *testClient) newSet() TestCaseSet {
	c.t.Helper()
	var team Team
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/api/teams", TeamRequest{Name: "QA"}, &team))
	var set TestCaseSet
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/api/teams/"+team.ID+"/test-case-sets", SetRequest{Name: "Regression"}, &set))
	return set
}

func (c *testClient) newSection(setID, name string, parent *string) Section {
	c.t.Helper()
	var sec Section
	status := c.do(http.MethodPost, "/api/test-case-sets/"+setID+"/sections", SectionRequest{Name: name, ParentSectionID: parent}, &sec)
	require.Equal(c.t, http.StatusCreated, status)
	return sec
}

func TestHealthz(t *testing.T) {
	c := newTestClient(t, "")
	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBearerAuth(t *testing.T) {
	c := newTestClient(t, "s3cret")

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/teams", nil, nil))

	c.token = "wrong"
	var errBody ErrorBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/teams", nil, &errBody))
	assert.Contains(t, errBody.Detail, "bearer token")

	c.token = ""
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, nil), "health check stays public")
}

func TestTeams(t *testing.T) {
	c := newTestClient(t, "")

	var created Team
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/teams", TeamRequest{Name: "Payments"}, &created))

	var list []Team
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/teams", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	var updated Team
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/teams/"+created.ID, TeamRequest{Name: "Billing"}, &updated))
	assert.Equal(t, "Billing", updated.Name)

	var errBody ErrorBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/teams", TeamRequest{Name: ""}, &errBody))
	assert.Contains(t, errBody.Detail, "team name is required")

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/teams", `{"name":`, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/teams", `{"nom":"x"}`, nil))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/teams/"+created.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/teams/"+created.ID, nil, &errBody))
	assert.Contains(t, errBody.Detail, "not found")
}

func TestSets(t *testing.T) {
	c := newTestClient(t, "")
	set := c.newSet()

	var got TestCaseSet
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/test-case-sets/"+set.ID, nil, &got))
	assert.Equal(t, "Regression", got.Name)

	var list []TestCaseSet
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/teams/"+set.TeamID+"/test-case-sets", nil, &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/teams/missing/test-case-sets", nil, nil))
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/test-case-sets/"+set.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/test-case-sets/"+set.ID+"/sections", nil, nil))
}

func TestSections_CRUDAndTree(t *testing.T) {
	c := newTestClient(t, "")
	set := c.newSet()
	base := "/api/test-case-sets/" + set.ID + "/sections"

	a := c.newSection(set.ID, "Login", nil)
	b := c.newSection(set.ID, "SSO", &a.ID)
	assert.Equal(t, a.ID, *b.ParentSectionID)

	var flat []Section
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base, nil, &flat))
	assert.Len(t, flat, 3)

	var tree []Section
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"?tree=1", nil, &tree))
	require.Len(t, tree, 2)
	assert.Equal(t, "Login", tree[0].Name)
	assert.Equal(t, 1, tree[0].Level)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "SSO", tree[0].Children[0].Name)
	assert.Equal(t, 2, tree[0].Children[0].Level)
	assert.Equal(t, domain.UnassignedSectionName, tree[1].Name)
	unassignedID := tree[1].ID

	var renamed Section
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, base+"/"+b.ID, SectionRequest{Name: "Single sign-on"}, &renamed))
	assert.Equal(t, "Single sign-on", renamed.Name)

	var errBody ErrorBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPut, base+"/"+unassignedID, SectionRequest{Name: "Inbox"}, &errBody))
	assert.Contains(t, errBody.Detail, "Unassigned")
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, base+"/"+unassignedID, nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, base, SectionRequest{Name: "Unassigned"}, nil))

	var deleted DeleteSectionResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, base+"/"+a.ID, nil, &deleted))
	assert.Equal(t, 0, deleted.MovedTestCases)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, base+"/"+a.ID, nil, nil))
}

func TestSections_Reorder(t *testing.T) {
	c := newTestClient(t, "")
	set := c.newSet()
	base := "/api/test-case-sets/" + set.ID + "/sections"

	a := c.newSection(set.ID, "A", nil)
	b := c.newSection(set.ID, "B", nil)

	status := c.do(http.MethodPost, base+"/reorder", ReorderRequest{Sections: []domain.SectionOrder{
		{ID: b.ID, ParentSectionID: &a.ID, SortOrder: 0},
	}}, nil)
	require.Equal(t, http.StatusNoContent, status)

	var tree []Section
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"?tree=1", nil, &tree))
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, b.ID, tree[0].Children[0].ID)

	var errBody ErrorBody
	status = c.do(http.MethodPost, base+"/reorder", ReorderRequest{Sections: []domain.SectionOrder{
		{ID: a.ID, ParentSectionID: &b.ID},
	}}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errBody.Detail, "cannot be moved into itself")
}

func TestTestCases(t *testing.T) {
	c := newTestClient(t, "")
	set := c.newSet()
	base := "/api/teams/" + set.TeamID + "/testcases"
	sec := c.newSection(set.ID, "Login", nil)

	var tc TestCase
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, base, TestCaseRequest{
		SetID: set.ID, SectionID: sec.ID, Title: "valid password", Priority: "high",
	}, &tc))
	assert.Equal(t, "high", tc.Priority)

	var loose TestCase
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, base, TestCaseRequest{SetID: set.ID, Title: "loose"}, &loose))
	assert.NotEqual(t, sec.ID, loose.SectionID)

	var list []TestCase
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"?set_id="+set.ID, nil, &list))
	assert.Len(t, list, 2)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"?set_id="+set.ID+"&section_id="+sec.ID, nil, &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, base, nil, nil))

	var moved TestCase
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, base+"/"+loose.ID, TestCaseRequest{
		SectionID: sec.ID, Title: "no longer loose",
	}, &moved))
	assert.Equal(t, sec.ID, moved.SectionID)
	assert.Equal(t, "medium", moved.Priority)

	var other Team
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/teams", TeamRequest{Name: "Other"}, &other))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/teams/"+other.ID+"/testcases/"+tc.ID, nil, nil))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, base+"/"+tc.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, base+"/"+tc.ID, nil, nil))
}

func TestImportSet(t *testing.T) {
	c := newTestClient(t, "")

	var res ImportResponse
	status := c.do(http.MethodPost, "/api/test-case-sets/import", `
set: {team: Mobile, name: Onboarding}
sections:
  - {ref: s, name: Signup}
test_cases:
  - {section_ref: s, title: Email verification}
`, &res)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Mobile", res.Team.Name)
	assert.Equal(t, 2, res.SectionCount)
	assert.Equal(t, 1, res.TestCaseCount)

	var errBody ErrorBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/test-case-sets/import", `set: {name: x}`, &errBody))
	assert.Contains(t, errBody.Detail, "set.team is required")
}
