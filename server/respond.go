package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/chakhaeng/auth-server/auth"
	"github.com/chakhaeng/auth-server/users"
)

// apiResponse is the uniform response envelope. Errors always carry a nil
// data field.
type apiResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respondOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Code:    "OK",
		Message: message,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{
		Success: false,
		Code:    strconv.Itoa(status),
		Message: message,
		Data:    nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondAuthError maps the auth error taxonomy onto status codes. The
// mapping is exhaustive: anything outside the taxonomy is an internal error.
func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.InvalidAssertionErr):
		respondError(w, http.StatusUnauthorized, "invalid identity assertion")
	case errors.Is(err, auth.InvalidCredentialErr):
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, users.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
