package api

import (
	"io"
	"net/http"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/importer"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.svc.Sets.ListByTeam(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(sets, setFromDomain))
}

func (h *handler) createSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	set := &domain.TestCaseSet{
		TeamID:      chi.URLParam(r, "teamID"),
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
	}
	if err := h.svc.Sets.Create(r.Context(), set); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, setFromDomain(set))
}

func (h *handler) getSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.svc.Sets.GetByID(r.Context(), chi.URLParam(r, "setID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setFromDomain(set))
}

func (h *handler) updateSet(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	set, err := h.svc.Sets.GetByID(r.Context(), chi.URLParam(r, "setID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	set.Name = req.Name
	set.Description = req.Description
	set.IsDefault = req.IsDefault
	if err := h.svc.Sets.Update(r.Context(), set); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setFromDomain(set))
}

func (h *handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sets.Delete(r.Context(), chi.URLParam(r, "setID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// importSet accepts a YAML or JSON set document as the request body.
func (h *handler) importSet(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	schema, err := importer.ParseSetSchema(data)
	if err != nil {
		h.writeError(w, r, badRequest(err))
		return
	}
	res, err := h.svc.Import.ImportSetFromSchema(r.Context(), schema)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ImportResponse{
		Team:          teamFromDomain(res.Team),
		Set:           setFromDomain(res.Set),
		SectionCount:  res.SectionCount,
		TestCaseCount: res.TestCaseCount,
	})
}
