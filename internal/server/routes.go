package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(router chi.Router) {
	router.Get("/healthz", s.handleHealth)

	router.Route("/v1", func(r chi.Router) {
		r.Get("/dialects", s.handleDialects)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/validate", s.handleValidate)
			r.Post("/tokenize", s.handleTokenize)
			r.Post("/report", s.handleReport)
		})
	})
}
