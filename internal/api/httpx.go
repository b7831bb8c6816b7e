package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/alexanderramin/testdeck/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}

// statusFor maps service and repository errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnassignedLocked), errors.Is(err, sectiontree.ErrUnassignedLocked):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		detail = "internal server error"
	}
	writeJSON(w, status, ErrorBody{Detail: detail})
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}
