package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alexanderramin/testdeck/internal/api"
	"github.com/alexanderramin/testdeck/internal/domain"
)

func (c *Client) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	var out []api.Team
	if err := c.do(ctx, http.MethodGet, "/api/teams", nil, &out); err != nil {
		return nil, err
	}
	teams := make([]*domain.Team, 0, len(out))
	for _, t := range out {
		teams = append(teams, t.ToDomain())
	}
	return teams, nil
}

func (c *Client) CreateTeam(ctx context.Context, name, description string) (*domain.Team, error) {
	var out api.Team
	req := api.TeamRequest{Name: name, Description: description}
	if err := c.do(ctx, http.MethodPost, "/api/teams", req, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (c *Client) ListSets(ctx context.Context, teamID string) ([]*domain.TestCaseSet, error) {
	var out []api.TestCaseSet
	if err := c.do(ctx, http.MethodGet, "/api/teams/"+url.PathEscape(teamID)+"/test-case-sets", nil, &out); err != nil {
		return nil, err
	}
	sets := make([]*domain.TestCaseSet, 0, len(out))
	for _, s := range out {
		sets = append(sets, s.ToDomain())
	}
	return sets, nil
}

func (c *Client) CreateSet(ctx context.Context, teamID, name, description string) (*domain.TestCaseSet, error) {
	var out api.TestCaseSet
	req := api.SetRequest{Name: name, Description: description}
	if err := c.do(ctx, http.MethodPost, "/api/teams/"+url.PathEscape(teamID)+"/test-case-sets", req, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func sectionsPath(setID string) string {
	return "/api/test-case-sets/" + url.PathEscape(setID) + "/sections"
}

// ListSections returns the set's sections as flat rows.
func (c *Client) ListSections(ctx context.Context, setID string) ([]*domain.Section, error) {
	var out []api.Section
	if err := c.do(ctx, http.MethodGet, sectionsPath(setID), nil, &out); err != nil {
		return nil, err
	}
	return toDomainSections(out), nil
}

// SectionTree returns the set's root sections with children and levels.
func (c *Client) SectionTree(ctx context.Context, setID string) ([]*domain.Section, error) {
	var out []api.Section
	if err := c.do(ctx, http.MethodGet, sectionsPath(setID)+"?tree=1", nil, &out); err != nil {
		return nil, err
	}
	return toDomainSections(out), nil
}

func (c *Client) CreateSection(ctx context.Context, setID, name string, parentID *string) (*domain.Section, error) {
	var out api.Section
	req := api.SectionRequest{Name: name, ParentSectionID: parentID}
	if err := c.do(ctx, http.MethodPost, sectionsPath(setID), req, &out); err != nil {
		return nil, err
	}
	return toDomainSection(out), nil
}

func (c *Client) RenameSection(ctx context.Context, setID, id, name string) (*domain.Section, error) {
	var out api.Section
	req := api.SectionRequest{Name: name}
	if err := c.do(ctx, http.MethodPut, sectionsPath(setID)+"/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return toDomainSection(out), nil
}

// DeleteSection removes a section subtree and returns how many test cases
// the backend moved to Unassigned.
func (c *Client) DeleteSection(ctx context.Context, setID, id string) (int, error) {
	var out api.DeleteSectionResponse
	if err := c.do(ctx, http.MethodDelete, sectionsPath(setID)+"/"+url.PathEscape(id), nil, &out); err != nil {
		return 0, err
	}
	return out.MovedTestCases, nil
}

// ReorderSections sends one batch of reorder tuples.
func (c *Client) ReorderSections(ctx context.Context, setID string, orders []domain.SectionOrder) error {
	return c.do(ctx, http.MethodPost, sectionsPath(setID)+"/reorder", api.ReorderRequest{Sections: orders}, nil)
}

func toDomainSection(s api.Section) *domain.Section {
	sec := s.ToDomain()
	sec.Level = s.Level
	sec.Children = toDomainSections(s.Children)
	return &sec
}

func toDomainSections(in []api.Section) []*domain.Section {
	if len(in) == 0 {
		return nil
	}
	out := make([]*domain.Section, 0, len(in))
	for _, s := range in {
		out = append(out, toDomainSection(s))
	}
	return out
}
