package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/testdeck/internal/domain"
)

// ValidateSetSchema checks the document before conversion and returns
// every problem found.
func ValidateSetSchema(schema *SetSchema) []error {
	var errs []error

	if strings.TrimSpace(schema.Set.Team) == "" {
		errs = append(errs, fmt.Errorf("set.team is required"))
	}
	if strings.TrimSpace(schema.Set.Name) == "" {
		errs = append(errs, fmt.Errorf("set.name is required"))
	}

	levels := make(map[string]int)
	errs = append(errs, validateSections(schema.Sections, levels)...)
	errs = append(errs, validateTestCases(schema.TestCases, levels)...)

	return errs
}

func validateSections(sections []SectionImport, levels map[string]int) []error {
	var errs []error

	for i, s := range sections {
		prefix := fmt.Sprintf("sections[%d]", i)

		if _, err := domain.NormalizeSectionName(s.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s.name: %w", prefix, err))
		}

		level := 1
		if s.ParentRef != nil && *s.ParentRef != "" {
			parent := *s.ParentRef
			switch parentLevel, ok := levels[parent]; {
			case parent == s.Ref:
				errs = append(errs, fmt.Errorf("%s.parent_ref: section %q cannot be its own parent", prefix, s.Ref))
			case !ok:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in sections list)", prefix, parent))
			default:
				level = parentLevel + 1
			}
		}
		if level > domain.MaxSectionDepth {
			errs = append(errs, fmt.Errorf("%s: depth %d exceeds the maximum of %d", prefix, level, domain.MaxSectionDepth))
		}

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := levels[s.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		} else {
			levels[s.Ref] = level
		}
	}

	return errs
}

func validateTestCases(cases []TestCaseImport, levels map[string]int) []error {
	var errs []error

	for i, c := range cases {
		prefix := fmt.Sprintf("test_cases[%d]", i)

		if strings.TrimSpace(c.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if c.SectionRef != "" {
			if _, ok := levels[c.SectionRef]; !ok {
				errs = append(errs, fmt.Errorf("%s.section_ref: ref %q not found in sections", prefix, c.SectionRef))
			}
		}
		if c.Priority != "" && !domain.ValidPriorities[strings.ToLower(c.Priority)] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, c.Priority))
		}
	}

	return errs
}
