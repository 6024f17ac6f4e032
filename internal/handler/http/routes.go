package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const apiPrefix = "/api/v1/"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Get("/api/version/", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		mountCollection(r, h.services.Workspaces)
		mountCollection(r, h.services.Preferences)
		mountCollection(r, h.services.Users)
		mountCollection(r, h.services.Clients)
		mountCollection(r, h.services.Tags)
		mountCollection(r, h.services.Projects)
		mountCollection(r, h.services.Tasks)
		mountCollection(r, h.services.TimeEntries)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
