package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type googleCodeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type authResponse struct {
	Access           string `json:"access"`
	AccessExpiresIn  int64  `json:"accessExpiresIn"`
	Refresh          string `json:"refresh,omitempty"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn,omitempty"`
	IsFirstLogin     bool   `json:"isFirstLogin"`
}

// GoogleLoginHandler handles POST /auth/google: a Google ID token in, an
// access/refresh pair out.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req googleLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
			// A missing credential is reported the same way as a bad one.
			respondError(w, http.StatusUnauthorized, "invalid identity assertion")
			return
		}

		pair, err := s.sessions.Login(r.Context(), req.IDToken)
		if err != nil {
			respondAuthError(w, err)
			return
		}

		respondOK(w, "login succeeded", authResponse{
			Access:           pair.Access,
			AccessExpiresIn:  int64(pair.AccessTTL / time.Second),
			Refresh:          pair.Refresh,
			RefreshExpiresIn: int64(pair.RefreshTTL / time.Second),
			IsFirstLogin:     pair.IsFirstLogin,
		})
	}
}

// GoogleCodeLoginHandler handles POST /auth/google/code for clients that
// finish the consent flow server-side: the authorization code is exchanged
// for the provider's ID token, which then goes through the normal login path.
func (s *Server) GoogleCodeLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.exchanger == nil {
			respondError(w, http.StatusBadRequest, "code login is not enabled")
			return
		}

		var req googleCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			respondError(w, http.StatusUnauthorized, "invalid identity assertion")
			return
		}

		idToken, err := s.exchanger.Exchange(r.Context(), req.Code, req.RedirectURI)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid identity assertion")
			return
		}

		pair, err := s.sessions.Login(r.Context(), idToken)
		if err != nil {
			respondAuthError(w, err)
			return
		}

		respondOK(w, "login succeeded", authResponse{
			Access:           pair.Access,
			AccessExpiresIn:  int64(pair.AccessTTL / time.Second),
			Refresh:          pair.Refresh,
			RefreshExpiresIn: int64(pair.RefreshTTL / time.Second),
			IsFirstLogin:     pair.IsFirstLogin,
		})
	}
}

// RefreshHandler handles POST /auth/refresh. The refresh token itself stays
// valid unless rotation is enabled, in which case the response carries its
// replacement.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		pair, err := s.sessions.Refresh(r.Context(), req.Refresh)
		if err != nil {
			respondAuthError(w, err)
			return
		}

		resp := authResponse{
			Access:          pair.Access,
			AccessExpiresIn: int64(pair.AccessTTL / time.Second),
		}
		if pair.Refresh != "" {
			resp.Refresh = pair.Refresh
			resp.RefreshExpiresIn = int64(pair.RefreshTTL / time.Second)
		}
		respondOK(w, "token refreshed", resp)
	}
}

type validateResponse struct {
	UserID    string `json:"userId"`
	ExpiresAt string `json:"expiresAt"`
}

// ValidateHandler handles GET /auth/validate: explicit access token
// introspection.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		intro, err := s.sessions.Validate(r.Context(), parts[1])
		if err != nil {
			respondAuthError(w, err)
			return
		}

		respondOK(w, "token valid", validateResponse{
			UserID:    intro.UserID.String(),
			ExpiresAt: intro.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// LogoutHandler handles POST /auth/logout: best-effort revoke, 200 always.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Refresh != "" {
			_ = s.sessions.Logout(r.Context(), req.Refresh)
		}
		respondOK(w, "logged out", nil)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, "ok", nil)
	}
}
