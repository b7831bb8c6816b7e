package api

import (
	"net/http"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.Teams.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(teams, teamFromDomain))
}

func (h *handler) createTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	team := &domain.Team{Name: req.Name, Description: req.Description}
	if err := h.svc.Teams.Create(r.Context(), team); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, teamFromDomain(team))
}

func (h *handler) getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.svc.Teams.GetByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teamFromDomain(team))
}

func (h *handler) updateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	team, err := h.svc.Teams.GetByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	team.Name = req.Name
	team.Description = req.Description
	if err := h.svc.Teams.Update(r.Context(), team); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teamFromDomain(team))
}

func (h *handler) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Teams.Delete(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
