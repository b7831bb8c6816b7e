package api

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/testdeck/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services are the use cases the REST surface exposes.
type Services struct {
	Teams    service.TeamService
	Sets     service.TestCaseSetService
	Sections service.SectionService
	Cases    service.TestCaseService
	Import   service.ImportService
}

type Options struct {
	// Token enables bearer authentication on /api when non-empty.
	Token  string
	Logger *slog.Logger
}

type handler struct {
	svc    Services
	logger *slog.Logger
}

// NewRouter builds the chi router for the testdeck REST API.
func NewRouter(svc Services, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", healthzHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(bearerAuth(opts.Token))

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.listTeams)
			r.Post("/", h.createTeam)
			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", h.getTeam)
				r.Put("/", h.updateTeam)
				r.Delete("/", h.deleteTeam)

				r.Get("/test-case-sets", h.listSets)
				r.Post("/test-case-sets", h.createSet)

				r.Get("/testcases", h.listTestCases)
				r.Post("/testcases", h.createTestCase)
				r.Get("/testcases/{caseID}", h.getTestCase)
				r.Put("/testcases/{caseID}", h.updateTestCase)
				r.Delete("/testcases/{caseID}", h.deleteTestCase)
			})
		})

		r.Post("/test-case-sets/import", h.importSet)
		r.Route("/test-case-sets/{setID}", func(r chi.Router) {
			r.Get("/", h.getSet)
			r.Put("/", h.updateSet)
			r.Delete("/", h.deleteSet)

			r.Get("/sections", h.listSections)
			r.Post("/sections", h.createSection)
			r.Post("/sections/reorder", h.reorderSections)
			r.Put("/sections/{sectionID}", h.renameSection)
			r.Delete("/sections/{sectionID}", h.deleteSection)
		})
	})

	return r
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
