package domain

import (
	"fmt"
	"strings"
	"time"
)

type Team struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required before a team is stored.
func (t *Team) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

type TestCaseSet struct {
	ID          string
	TeamID      string
	Name        string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *TestCaseSet) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("test case set name is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("test case set team is required")
	}
	return nil
}
