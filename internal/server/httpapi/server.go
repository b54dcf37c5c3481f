// Package httpapi exposes the backend over HTTP/JSON: the provider sign-in
// entry, bearer verification, profile and avatar endpoints, and session-key
// issuance.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/codetrack-app/codetrack/internal/logging"
	sc "github.com/codetrack-app/codetrack/internal/server/config"
	"github.com/codetrack-app/codetrack/internal/server/users"
)

// AvatarSigner issues presigned object-storage URLs for profile images.
type AvatarSigner interface {
	UploadURL(ctx context.Context, userID int64) (key string, url string, err error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

type Server struct {
	config  *sc.Config
	log     logging.Logger
	users   users.Repository
	avatars AvatarSigner
}

func NewServer(config *sc.Config, log logging.Logger, repo users.Repository, avatars AvatarSigner) *Server {
	return &Server{config: config, log: log, users: repo, avatars: avatars}
}

// Router assembles the public route tree under /api/v1.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/auth/{provider}", s.handleAuthRedirect)
		r.Post("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(s.bearerAuth)
			r.Get("/auth/verify", s.handleVerify)
			r.Get("/users/current", s.handleCurrentUser)
			r.Post("/users/current/avatar-url", s.handleAvatarUploadURL)
			r.Get("/users/current/avatar-url", s.handleAvatarDownloadURL)
		})
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error(context.Background(), "error writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
