package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/service"
)

// ErrNetwork wraps transport failures and undecodable responses.
var ErrNetwork = errors.New("testdeck API unreachable")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Detail)
}

// IsValidation reports whether the backend rejected the request itself
// (any 4xx).
func (e *APIError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500
}

// Unwrap maps statuses back onto the sentinels the local services return,
// so callers can use errors.Is regardless of where the call ran.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return repository.ErrNotFound
	case http.StatusConflict:
		return service.ErrUnassignedLocked
	case http.StatusBadRequest:
		return service.ErrValidation
	default:
		return nil
	}
}
