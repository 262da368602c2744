package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"interviewhub/internal/domain"
)

// handleGetUser serves GET /api/users/{userID}: the public identity fields
// only, no credentials.
func handleGetUser(users domain.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		user, err := users.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
