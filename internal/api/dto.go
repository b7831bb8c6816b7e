package api

import (
	"time"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TestCaseSet struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Section struct {
	ID              string    `json:"id"`
	SetID           string    `json:"test_case_set_id"`
	Name            string    `json:"name"`
	ParentSectionID *string   `json:"parent_section_id"`
	SortOrder       int       `json:"sort_order"`
	TestCaseCount   int       `json:"test_case_count"`
	Level           int       `json:"level,omitempty"`
	Children        []Section `json:"children,omitempty"`
}

type TestCase struct {
	ID        string    `json:"id"`
	SetID     string    `json:"test_case_set_id"`
	SectionID string    `json:"section_id"`
	Number    string    `json:"number"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	TCGTicket string    `json:"tcg_ticket"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

type SectionRequest struct {
	Name            string  `json:"name"`
	ParentSectionID *string `json:"parent_section_id,omitempty"`
}

type ReorderRequest struct {
	Sections []domain.SectionOrder `json:"sections"`
}

type DeleteSectionResponse struct {
	MovedTestCases int `json:"moved_test_cases"`
}

type TestCaseRequest struct {
	SetID     string `json:"test_case_set_id"`
	SectionID string `json:"section_id,omitempty"`
	Number    string `json:"number,omitempty"`
	Title     string `json:"title"`
	Priority  string `json:"priority,omitempty"`
	TCGTicket string `json:"tcg_ticket,omitempty"`
}

type ImportResponse struct {
	Team          Team        `json:"team"`
	Set           TestCaseSet `json:"test_case_set"`
	SectionCount  int         `json:"section_count"`
	TestCaseCount int         `json:"test_case_count"`
}

func teamFromDomain(t *domain.Team) Team {
	return Team{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (t Team) ToDomain() *domain.Team {
	return &domain.Team{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (s TestCaseSet) ToDomain() *domain.TestCaseSet {
	return &domain.TestCaseSet{
		ID:          s.ID,
		TeamID:      s.TeamID,
		Name:        s.Name,
		Description: s.Description,
		IsDefault:   s.IsDefault,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func setFromDomain(s *domain.TestCaseSet) TestCaseSet {
	return TestCaseSet{
		ID:          s.ID,
		TeamID:      s.TeamID,
		Name:        s.Name,
		Description: s.Description,
		IsDefault:   s.IsDefault,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SectionFromDomain converts a section and, recursively, its children.
func SectionFromDomain(s *domain.Section) Section {
	out := Section{
		ID:              s.ID,
		SetID:           s.SetID,
		Name:            s.Name,
		ParentSectionID: s.ParentID,
		SortOrder:       s.SortOrder,
		TestCaseCount:   s.TestCaseCount,
		Level:           s.Level,
	}
	for _, c := range s.Children {
		out.Children = append(out.Children, SectionFromDomain(c))
	}
	return out
}

// ToDomain is the inverse of SectionFromDomain for a single flat row.
func (s Section) ToDomain() domain.Section {
	return domain.Section{
		ID:            s.ID,
		SetID:         s.SetID,
		Name:          s.Name,
		ParentID:      s.ParentSectionID,
		SortOrder:     s.SortOrder,
		TestCaseCount: s.TestCaseCount,
	}
}

func testCaseFromDomain(c *domain.TestCase) TestCase {
	return TestCase{
		ID:        c.ID,
		SetID:     c.SetID,
		SectionID: c.SectionID,
		Number:    c.Number,
		Title:     c.Title,
		Priority:  string(c.Priority),
		TCGTicket: c.TCGTicket,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
