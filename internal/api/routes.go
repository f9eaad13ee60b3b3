package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Get("/lanes", h.ListLanes)

			r.Route("/tactics", func(r chi.Router) {
				r.Get("/", h.ListTactics)
				r.Post("/", h.InsertTactic)
				r.Patch("/{id}", h.UpdateTactic)
				r.Put("/{id}/lane", h.MoveTactic)
				r.Delete("/{id}", h.DeleteTactic)
			})

			r.Route("/library", func(r chi.Router) {
				r.Get("/", h.ListLibrary)
				r.Post("/", h.CreateLibrary)
				r.Get("/{id}", h.GetLibrary)
				r.Delete("/{id}", h.DeleteLibrary)
			})
		})
	})

	return r
}
