package api

import (
	"log/slog"
	"net/http"
)

// VerifyPassword handles POST /api/auth/verify.
//
//	@Summary		Verify the admin password and receive a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		VerifyRequest	true	"Candidate password"
//	@Success		200		{object}	VerifyResponse
//	@Failure		400		{object}	errResponse
//	@Failure		401		{object}	errResponse
//	@Router			/auth/verify [post]
func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("password is required"))
		return
	}
	if !h.creds.Verify(req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody("wrong password"))
		return
	}
	tok, err := h.sessions.Issue()
	if err != nil {
		slog.Error("issue token failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{
		Success:   true,
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt.UnixMilli(),
	})
}

// ChangePassword handles POST /api/auth/change-password. The token travels
// in the body rather than the Authorization header; the browser submits
// this form outside its authorized-fetch helper.
//
//	@Summary		Change the admin password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ChangePasswordRequest	true	"Current and new password plus token"
//	@Success		200		{object}	successResponse
//	@Failure		400		{object}	errResponse
//	@Failure		401		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Router			/auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.sessions.Validate(req.Token) {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("current and new password are required"))
		return
	}
	if !h.creds.Verify(req.CurrentPassword) {
		writeJSON(w, http.StatusUnauthorized, errorBody("wrong password"))
		return
	}
	if err := h.creds.Update(req.NewPassword); err != nil {
		slog.Error("update password failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("password update failed"))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
