package importer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/google/uuid"
)

// GeneratedSet holds the domain rows produced from a SetSchema, in insert
// order: parents always precede their children.
type GeneratedSet struct {
	Set       *domain.TestCaseSet
	Sections  []*domain.Section
	TestCases []*domain.TestCase
}

// Unassigned returns the set's reserved section.
func (g *GeneratedSet) Unassigned() *domain.Section {
	return g.Sections[len(g.Sections)-1]
}

// Convert transforms a validated SetSchema into domain rows for teamID.
// Sort orders are rewritten densely per sibling group following the
// document's order values. The Unassigned section is appended last.
// Call ValidateSetSchema first; Convert assumes the schema is valid.
func Convert(schema *SetSchema, teamID string) (*GeneratedSet, error) {
	now := time.Now().UTC()

	set := &domain.TestCaseSet{
		ID:          uuid.New().String(),
		TeamID:      teamID,
		Name:        strings.TrimSpace(schema.Set.Name),
		Description: schema.Set.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	refMap := make(map[string]string, len(schema.Sections)) // ref -> UUID
	sections := make([]*domain.Section, 0, len(schema.Sections)+1)
	groups := make(map[string][]int) // parent ref ("" for roots) -> indices
	for i, s := range schema.Sections {
		name, err := domain.NormalizeSectionName(s.Name)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Ref, err)
		}
		realID := uuid.New().String()
		refMap[s.Ref] = realID

		var parentID *string
		parentRef := ""
		if s.ParentRef != nil && *s.ParentRef != "" {
			parentRef = *s.ParentRef
			pid, ok := refMap[parentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for section %q", parentRef, s.Ref)
			}
			parentID = &pid
		}
		groups[parentRef] = append(groups[parentRef], i)

		sections = append(sections, &domain.Section{
			ID:        realID,
			SetID:     set.ID,
			Name:      name,
			ParentID:  parentID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for _, idx := range groups {
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(schema.Sections[a].Order, schema.Sections[b].Order)
		})
		for order, i := range idx {
			sections[i].SortOrder = order
		}
	}

	unassigned := &domain.Section{
		ID:        uuid.New().String(),
		SetID:     set.ID,
		Name:      domain.UnassignedSectionName,
		SortOrder: len(groups[""]),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sections = append(sections, unassigned)

	cases := make([]*domain.TestCase, 0, len(schema.TestCases))
	for _, c := range schema.TestCases {
		sectionID := unassigned.ID
		if c.SectionRef != "" {
			id, ok := refMap[c.SectionRef]
			if !ok {
				return nil, fmt.Errorf("section_ref %q not found for test case %q", c.SectionRef, c.Title)
			}
			sectionID = id
		}
		tc := &domain.TestCase{
			ID:        uuid.New().String(),
			SetID:     set.ID,
			SectionID: sectionID,
			Title:     c.Title,
			Priority:  domain.Priority(strings.ToLower(c.Priority)),
			TCGTicket: c.TCG,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tc.Validate(); err != nil {
			return nil, fmt.Errorf("test case %q: %w", c.Title, err)
		}
		cases = append(cases, tc)
	}

	return &GeneratedSet{Set: set, Sections: sections, TestCases: cases}, nil
}
