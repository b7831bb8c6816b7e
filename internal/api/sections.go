package api

import (
	"net/http"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/go-chi/chi/v5"
)

// listSections returns the flat list, or the nested forest with ?tree=1.
func (h *handler) listSections(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	var (
		sections []*domain.Section
		err      error
	)
	if nested(r) {
		sections, err = h.svc.Sections.Tree(r.Context(), setID)
	} else {
		sections, err = h.svc.Sections.List(r.Context(), setID)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(sections, SectionFromDomain))
}

func nested(r *http.Request) bool {
	switch r.URL.Query().Get("tree") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (h *handler) createSection(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sec := &domain.Section{
		SetID:    chi.URLParam(r, "setID"),
		Name:     req.Name,
		ParentID: req.ParentSectionID,
	}
	if err := h.svc.Sections.Create(r.Context(), sec); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SectionFromDomain(sec))
}

func (h *handler) renameSection(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sec, err := h.svc.Sections.Rename(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "sectionID"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SectionFromDomain(sec))
}

func (h *handler) deleteSection(w http.ResponseWriter, r *http.Request) {
	moved, err := h.svc.Sections.Delete(r.Context(), chi.URLParam(r, "setID"), chi.URLParam(r, "sectionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteSectionResponse{MovedTestCases: moved})
}

func (h *handler) reorderSections(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Sections.Reorder(r.Context(), chi.URLParam(r, "setID"), req.Sections); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
