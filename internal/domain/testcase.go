package domain

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"high": true, "medium": true, "low": true,
}

type TestCase struct {
	ID        string
	SetID     string
	SectionID string
	Number    string // human facing case number, e.g. TCG-101.010.020
	Title     string
	Priority  Priority
	TCGTicket string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate normalizes and checks a test case before it is stored.
func (c *TestCase) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return fmt.Errorf("test case title is required")
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if !ValidPriorities[string(c.Priority)] {
		return fmt.Errorf("invalid priority %q (use high|medium|low)", c.Priority)
	}
	c.TCGTicket = strings.ToUpper(strings.TrimSpace(c.TCGTicket))
	return nil
}
