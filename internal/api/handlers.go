package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/credential"
	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/session"
	"github.com/starford/wunjo/internal/sse"
)

const maxBodyBytes = 50 << 20 // data-URI wallpaper uploads can be large

// Handler holds API route handlers.
type Handler struct {
	links      *linkservice.Service
	creds      *credential.Store
	sessions   session.Store
	checker    *probe.Checker
	wallpapers *gallery.Service
	broker     *sse.Broker // optional; nil disables change events
}

// NewHandler creates a new Handler.
func NewHandler(links *linkservice.Service, creds *credential.Store, sessions session.Store, checker *probe.Checker, wallpapers *gallery.Service, broker *sse.Broker) *Handler {
	return &Handler{
		links:      links,
		creds:      creds,
		sessions:   sessions,
		checker:    checker,
		wallpapers: wallpapers,
		broker:     broker,
	}
}

// notify publishes a change event when a broker is attached.
func (h *Handler) notify(kind, id string) {
	if h.broker != nil {
		h.broker.PublishChange(kind, id)
	}
}

// respondError maps service errors onto the API status codes.
func respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListLinks handles GET /api/links.
//
//	@Summary		Get the full categorized link collection
//	@Tags			links
//	@Produce		json
//	@Success		200	{object}	models.Collection
//	@Router			/links [get]
func (h *Handler) ListLinks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.links.ListAll())
}

// CreateLink handles POST /api/links.
//
//	@Summary		Add a link to a category
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateLinkRequest	true	"Link to add"
//	@Success		201		{object}	models.Link
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links [post]
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	link, err := h.links.CreateLink(req.CategoryID, req.Title, req.URL)
	if err != nil {
		respondError(w, err, "create link")
		return
	}
	h.notify("link.created", link.ID)
	writeJSON(w, http.StatusCreated, link)
}

// UpdateLink handles PUT /api/links/{categoryID}/{linkID}.
//
//	@Summary		Edit a link's title and URL in place
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		string				true	"Category id"
//	@Param			linkID		path		string				true	"Link id"
//	@Param			body		body		UpdateLinkRequest	true	"New title and URL"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/{categoryID}/{linkID} [put]
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req UpdateLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	link, err := h.links.UpdateLink(chi.URLParam(r, "categoryID"), chi.URLParam(r, "linkID"), req.Title, req.URL)
	if err != nil {
		respondError(w, err, "update link")
		return
	}
	h.notify("link.updated", link.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "link": link})
}

// DeleteLink handles DELETE /api/links/{categoryID}/{linkID}.
//
//	@Summary		Remove a link from its category
//	@Tags			links
//	@Produce		json
//	@Param			categoryID	path		string	true	"Category id"
//	@Param			linkID		path		string	true	"Link id"
//	@Success		200			{object}	successResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/{categoryID}/{linkID} [delete]
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	if err := h.links.DeleteLink(chi.URLParam(r, "categoryID"), linkID); err != nil {
		respondError(w, err, "delete link")
		return
	}
	h.notify("link.deleted", linkID)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// MoveLink handles POST /api/links/move.
//
//	@Summary		Move a link to another category, updating title and URL
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MoveLinkRequest	true	"Move request"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/move [post]
func (h *Handler) MoveLink(w http.ResponseWriter, r *http.Request) {
	var req MoveLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	link, err := h.links.MoveLink(req.LinkID, req.OldCategoryID, req.NewCategoryID, req.Title, req.URL)
	if err != nil {
		respondError(w, err, "move link")
		return
	}
	h.notify("link.moved", link.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "link": link})
}

// CreateCategory handles POST /api/categories.
//
//	@Summary		Add an empty category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCategoryRequest	true	"Category to add"
//	@Success		201		{object}	models.Category
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := h.links.CreateCategory(req.ID, req.Name)
	if err != nil {
		respondError(w, err, "create category")
		return
	}
	h.notify("category.created", cat.ID)
	writeJSON(w, http.StatusCreated, cat)
}

// RenameCategory handles PUT /api/categories/{categoryID}.
//
//	@Summary		Rename a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		string					true	"Category id"
//	@Param			body		body		RenameCategoryRequest	true	"New name"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{categoryID} [put]
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req RenameCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := h.links.RenameCategory(chi.URLParam(r, "categoryID"), req.Name)
	if err != nil {
		respondError(w, err, "rename category")
		return
	}
	h.notify("category.updated", cat.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "category": cat})
}

// DeleteCategory handles DELETE /api/categories/{categoryID}.
//
//	@Summary		Remove a category and all its links
//	@Tags			categories
//	@Produce		json
//	@Param			categoryID	path		string	true	"Category id"
//	@Success		200			{object}	successResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{categoryID} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "categoryID")
	if err := h.links.DeleteCategory(id); err != nil {
		respondError(w, err, "delete category")
		return
	}
	h.notify("category.deleted", id)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
