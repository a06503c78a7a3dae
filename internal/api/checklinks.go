package api

import "net/http"

// CheckLinks handles POST /api/check-links.
//
//	@Summary		Probe a batch of URLs for reachability
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckLinksRequest	true	"URLs to probe"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	errResponse
//	@Router			/check-links [post]
func (h *Handler) CheckLinks(w http.ResponseWriter, r *http.Request) {
	var req CheckLinksRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URLs == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("urls must be a list"))
		return
	}
	results := h.checker.CheckBatch(r.Context(), req.URLs)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
