package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/codetrack-app/codetrack/internal/server/auth"
	"github.com/codetrack-app/codetrack/internal/server/users"
)

// handleAuthRedirect is the sign-in entry: GET /auth/{provider}?returnUrl=.
// The provider handshake itself happens out of band; this endpoint settles
// the account and 302s back to returnUrl with either a minted bearer token
// or an error parameter the callback understands.
func (s *Server) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	returnURL := r.URL.Query().Get("returnUrl")
	if returnURL == "" {
		returnURL = strings.TrimRight(s.config.FrontendURL, "/") + "/auth/callback"
	}

	if !s.linkedProvider(provider) {
		s.log.Warn(r.Context(), "sign-in with unlinked provider", "provider", provider)
		http.Redirect(w, r, withParam(returnURL, "error", "invalid_provider"), http.StatusFound)
		return
	}

	login := r.URL.Query().Get("login")
	if login == "" {
		http.Redirect(w, r, withParam(returnURL, "error", "missing_login"), http.StatusFound)
		return
	}

	user, err := s.users.GetOrCreate(r.Context(), &users.User{
		Username:         login,
		Email:            r.URL.Query().Get("email"),
		ProfileURL:       r.URL.Query().Get("profileUrl"),
		Provider:         provider,
		SubscriptionTier: "FREE",
	})
	if err != nil {
		s.log.Error(r.Context(), "error settling account", "error", err)
		http.Redirect(w, r, withParam(returnURL, "error", "server_error"), http.StatusFound)
		return
	}

	token, err := auth.GenerateToken(user.ID, provider, []byte(s.config.SecretKey), s.config.TokenValidity)
	if err != nil {
		s.log.Error(r.Context(), "error minting token", "error", err)
		http.Redirect(w, r, withParam(returnURL, "error", "server_error"), http.StatusFound)
		return
	}

	http.Redirect(w, r, withParam(returnURL, common.TokenQueryParam, token), http.StatusFound)
}

func (s *Server) linkedProvider(provider string) bool {
	for _, p := range s.config.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// withParam appends key=value to base, keeping any query it already has.
func withParam(base, key, value string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + key + "=" + url.QueryEscape(value)
}

// handleVerify returns the confirmed identity behind the presented bearer
// token: GET /auth/verify.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"user": currentUser(r.Context())})
}

// handleCurrentUser returns the signed-in profile: GET /users/current.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"data": currentUser(r.Context())})
}

// handleAvatarUploadURL issues a presigned PUT URL and records the new
// object key on the account: POST /users/current/avatar-url.
func (s *Server) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	key, uploadURL, err := s.avatars.UploadURL(r.Context(), user.ID)
	if err != nil {
		s.log.Error(r.Context(), "error presigning upload", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := s.users.SetAvatar(r.Context(), user.ID, key); err != nil {
		s.log.Error(r.Context(), "error storing avatar key", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"key": key, "uploadUrl": uploadURL})
}

// handleAvatarDownloadURL returns a presigned read URL for the stored
// avatar: GET /users/current/avatar-url.
func (s *Server) handleAvatarDownloadURL(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user.Avatar == "" {
		s.writeError(w, http.StatusNotFound, "no avatar")
		return
	}

	downloadURL, err := s.avatars.DownloadURL(r.Context(), user.Avatar)
	if err != nil {
		s.log.Error(r.Context(), "error presigning download", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"url": downloadURL})
}

type sessionRequest struct {
	UserID int64 `json:"userId"`
}

// handleSession issues a signed session key for a user: POST /session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		s.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if _, err := s.users.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, http.StatusNotFound, "unknown user")
			return
		}
		s.log.Error(r.Context(), "error loading user", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	sessionKey, err := auth.GenerateSessionKey(req.UserID, []byte(s.config.SecretKey), s.config.TokenValidity)
	if err != nil {
		s.log.Error(r.Context(), "error signing session key", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"sessionKey": sessionKey})
}
