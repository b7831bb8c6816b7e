package sectiontree

import "errors"

var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrDuplicateSection   = errors.New("duplicate section id")
	ErrOrphanSection      = errors.New("section parent not found")
	ErrMultipleUnassigned = errors.New("more than one Unassigned section")

	// ErrCycle is returned when a move would make a section its own
	// ancestor or descendant.
	ErrCycle = errors.New("section cannot be moved into itself or its descendants")

	ErrNoSibling        = errors.New("no sibling section in that direction")
	ErrNoIndentAnchor   = errors.New("no preceding section at the same level to nest under")
	ErrMaxDepth         = errors.New("maximum section depth exceeded")
	ErrTopLevel         = errors.New("section is already at the top level")
	ErrUnassignedLocked = errors.New("the Unassigned section cannot be moved or nested into")
	ErrInvalidLevels    = errors.New("invalid level sequence")
	ErrIndexOutOfRange  = errors.New("row index out of range")
	ErrInvalidDrop      = errors.New("invalid drop type")

	ErrSaveInProgress = errors.New("a save is already in progress")
)
