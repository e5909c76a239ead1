package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes caps request bodies. Five 5 MiB images base64-encode
// to roughly 33.4 MiB; the extra headroom covers data URL prefixes and
// the note's own fields.
const maxRequestBytes = 34 << 20

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxRequestBytes))

	// Deletes cascade, so they get their own ceiling: burst of 100, then
	// sustained 10/second.
	deleteRateLimiter := NewDeleteRateLimiter(100, 100*time.Millisecond)

	r.Route("/api", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Get("/theme", h.Theme)

			r.Route("/folders", func(r chi.Router) {
				r.Get("/", h.ListFolders)
				r.Post("/", h.CreateFolder)
				r.Get("/{id}", h.GetFolder)
				r.Put("/{id}", h.UpdateFolder)
				r.Get("/{id}/stats", h.FolderStats)
				r.With(deleteRateLimiter.Middleware).Delete("/{id}", h.DeleteFolder)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", h.CreateNote)
				r.Get("/folder/{id}", h.ListNotesByFolder)
				r.Get("/search/global", h.GlobalSearch)
				r.Get("/{id}", h.GetNote)
				r.Put("/{id}", h.UpdateNote)
				r.Patch("/{id}/pin", h.TogglePin)
				r.With(deleteRateLimiter.Middleware).Delete("/{id}", h.DeleteNote)
			})
		})
	})

	return r
}
