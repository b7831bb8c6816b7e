package api

import (
	"fmt"
	"net/http"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/go-chi/chi/v5"
)

// checkSetInTeam makes sets of other teams look missing.
func (h *handler) checkSetInTeam(r *http.Request, teamID, setID string) error {
	if setID == "" {
		return badRequest(fmt.Errorf("test_case_set_id is required"))
	}
	set, err := h.svc.Sets.GetByID(r.Context(), setID)
	if err != nil {
		return err
	}
	if set.TeamID != teamID {
		return fmt.Errorf("test case set %s in team %s: %w", setID, teamID, repository.ErrNotFound)
	}
	return nil
}

// caseInTeam loads a test case and checks its set belongs to the team.
func (h *handler) caseInTeam(r *http.Request) (*domain.TestCase, error) {
	tc, err := h.svc.Cases.GetByID(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		return nil, err
	}
	if err := h.checkSetInTeam(r, chi.URLParam(r, "teamID"), tc.SetID); err != nil {
		return nil, err
	}
	return tc, nil
}

func (h *handler) listTestCases(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("set_id")
	if err := h.checkSetInTeam(r, chi.URLParam(r, "teamID"), setID); err != nil {
		h.writeError(w, r, err)
		return
	}

	var (
		cases []*domain.TestCase
		err   error
	)
	if sectionID := r.URL.Query().Get("section_id"); sectionID != "" {
		cases, err = h.svc.Cases.ListBySection(r.Context(), sectionID)
	} else {
		cases, err = h.svc.Cases.ListBySet(r.Context(), setID)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(cases, testCaseFromDomain))
}

func (h *handler) createTestCase(w http.ResponseWriter, r *http.Request) {
	var req TestCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.checkSetInTeam(r, chi.URLParam(r, "teamID"), req.SetID); err != nil {
		h.writeError(w, r, err)
		return
	}
	tc := &domain.TestCase{
		SetID:     req.SetID,
		SectionID: req.SectionID,
		Number:    req.Number,
		Title:     req.Title,
		Priority:  domain.Priority(req.Priority),
		TCGTicket: req.TCGTicket,
	}
	if err := h.svc.Cases.Create(r.Context(), tc); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, testCaseFromDomain(tc))
}

func (h *handler) getTestCase(w http.ResponseWriter, r *http.Request) {
	tc, err := h.caseInTeam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, testCaseFromDomain(tc))
}

// updateTestCase replaces the editable fields. A changed section_id moves
// the case.
func (h *handler) updateTestCase(w http.ResponseWriter, r *http.Request) {
	var req TestCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	tc, err := h.caseInTeam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.SectionID != "" {
		tc.SectionID = req.SectionID
	}
	tc.Number = req.Number
	tc.Title = req.Title
	tc.Priority = domain.Priority(req.Priority)
	tc.TCGTicket = req.TCGTicket
	if err := h.svc.Cases.Update(r.Context(), tc); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, testCaseFromDomain(tc))
}

func (h *handler) deleteTestCase(w http.ResponseWriter, r *http.Request) {
	tc, err := h.caseInTeam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Cases.Delete(r.Context(), tc.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
