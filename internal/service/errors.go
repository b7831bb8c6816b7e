package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the caller must fix. Wrapped messages say
	// what was wrong.
	ErrValidation = errors.New("validation failed")

	ErrUnassignedLocked = errors.New("the Unassigned section is locked")
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// formatValidationErrors folds a list of problems into one ErrValidation.
func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
