// Package api implements the Wunjo REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/starford/wunjo/internal/session"
)

// RequireToken returns middleware that validates a bearer token against the
// session store. Requests must carry "Authorization: Bearer <token>" with a
// token that is known and unexpired; reads stay outside this middleware.
func RequireToken(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || !sessions.Validate(token) {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
