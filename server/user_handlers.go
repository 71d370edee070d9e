package server

import (
	"net/http"
)

// MeHandler handles GET /users/me: the directory record of the authenticated
// user. Downstream handlers see only the verified user id from the request
// context; this is the reference consumer of that contract.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.directory.GetByID(r.Context(), userID.String())
		if err != nil {
			respondAuthError(w, err)
			return
		}

		respondOK(w, "profile", user)
	}
}
