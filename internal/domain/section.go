package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// UnassignedSectionName is the reserved section every test case set owns.
// Test cases without a section land there.
const UnassignedSectionName = "Unassigned"

// MaxSectionDepth is the deepest level (1-based) a section may sit at.
const MaxSectionDepth = 5

const maxSectionNameLen = 100

type Section struct {
	ID            string
	SetID         string
	Name          string
	ParentID      *string
	SortOrder     int
	TestCaseCount int
	Level         int // 1-based; only populated by tree builders
	Children      []*Section
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsUnassigned reports whether s is the reserved Unassigned section.
func (s *Section) IsUnassigned() bool {
	return s.Name == UnassignedSectionName
}

// SectionOrder is one tuple of a batch reorder request.
type SectionOrder struct {
	ID              string  `json:"id"`
	ParentSectionID *string `json:"parent_section_id"`
	SortOrder       int     `json:"sort_order"`
}

// NormalizeSectionName trims name and checks it is usable for a
// user-created section.
func NormalizeSectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("section name is required")
	}
	if utf8.RuneCountInString(name) > maxSectionNameLen {
		return "", fmt.Errorf("section name must be at most %d characters", maxSectionNameLen)
	}
	if strings.EqualFold(name, UnassignedSectionName) {
		return "", fmt.Errorf("section name %q is reserved", UnassignedSectionName)
	}
	return name, nil
}

// SameParent reports whether two optional parent ids point at the same parent.
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
