package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wunjo/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// Reads are public; category/link mutations require a bearer token issued
// by POST /auth/verify. sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(h *Handler, sessions session.Store, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads.
	r.Get("/links", h.ListLinks)

	// Gated writes.
	r.Group(func(r chi.Router) {
		r.Use(RequireToken(sessions))

		r.Post("/links", h.CreateLink)
		r.Put("/links/{categoryID}/{linkID}", h.UpdateLink)
		r.Delete("/links/{categoryID}/{linkID}", h.DeleteLink)
		r.Post("/links/move", h.MoveLink)

		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{categoryID}", h.RenameCategory)
		r.Delete("/categories/{categoryID}", h.DeleteCategory)
	})

	// Auth flow. change-password validates its token from the body.
	r.Post("/auth/verify", h.VerifyPassword)
	r.Post("/auth/change-password", h.ChangePassword)

	// Reachability probing.
	r.Post("/check-links", h.CheckLinks)

	// Wallpaper gallery (unauthenticated, as the dashboard exposes it).
	r.Post("/wallpapers", h.UploadWallpaper)
	r.Get("/wallpapers", h.ListWallpapers)
	r.Delete("/wallpapers/{filename}", h.DeleteWallpaper)

	// SSE change feed.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
