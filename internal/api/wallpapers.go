package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// UploadWallpaper handles POST /api/wallpapers.
//
//	@Summary		Store a wallpaper from a data URI, or register an external URL
//	@Tags			wallpapers
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UploadWallpaperRequest	true	"Image payload"
//	@Success		200		{object}	UploadWallpaperResponse
//	@Failure		400		{object}	errResponse
//	@Router			/wallpapers [post]
func (h *Handler) UploadWallpaper(w http.ResponseWriter, r *http.Request) {
	var req UploadWallpaperRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.wallpapers.Save(req.ImageData, req.FileName)
	if err != nil {
		respondError(w, err, "save wallpaper")
		return
	}
	if !res.External {
		h.notify("wallpaper.added", res.URL)
	}
	writeJSON(w, http.StatusOK, UploadWallpaperResponse{
		Success:       true,
		WallpaperURL:  res.URL,
		IsExternalURL: res.External,
	})
}

// ListWallpapers handles GET /api/wallpapers.
//
//	@Summary		List stored wallpaper URLs
//	@Tags			wallpapers
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/wallpapers [get]
func (h *Handler) ListWallpapers(w http.ResponseWriter, _ *http.Request) {
	urls, err := h.wallpapers.List()
	if err != nil {
		respondError(w, err, "list wallpapers")
		return
	}
	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"wallpapers": urls})
}

// DeleteWallpaper handles DELETE /api/wallpapers/{filename}.
//
//	@Summary		Delete a stored wallpaper
//	@Tags			wallpapers
//	@Produce		json
//	@Param			filename	path		string	true	"Wallpaper file name"
//	@Success		200			{object}	successResponse
//	@Failure		400			{object}	errResponse
//	@Router			/wallpapers/{filename} [delete]
func (h *Handler) DeleteWallpaper(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if err := h.wallpapers.Delete(name); err != nil {
		respondError(w, err, "delete wallpaper")
		return
	}
	h.notify("wallpaper.removed", name)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// WallpaperFileServer serves stored wallpaper images from dir, for mounting
// at GET /images/wallpapers/{filename}. The name is restricted to a plain
// base name before it touches the filesystem.
func WallpaperFileServer(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")
		if name == "" || name != filepath.Base(name) {
			http.Error(w, "invalid filename", http.StatusBadRequest)
			return
		}
		abs := filepath.Join(dir, name)
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, abs)
	}
}
