// Package guard gates navigation to protected content. Classification is a
// static path-prefix check; the credential check is a coarse presence probe
// against the durable cache. Actual identity confirmation is the session
// verifier's job and happens elsewhere.
package guard

import (
	"context"
	"net/url"
	"strings"

	"github.com/codetrack-app/codetrack/internal/client/storage"
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/auth"

// DefaultPublicPaths are reachable without a credential: the login entry,
// the OAuth callback, and the shareable leaderboard page.
var DefaultPublicPaths = []string{"/auth", "/auth/callback", "/leaderboard"}

// MarkerSource reports whether a durable credential marker exists.
type MarkerSource interface {
	HasCredential(ctx context.Context) bool
}

// CacheMarker probes the credential cache. Storage errors read as "no
// marker"; the guard may flash a redirect, rehydration re-evaluates later.
type CacheMarker struct {
	Repo storage.Repository
}

func (m *CacheMarker) HasCredential(ctx context.Context) bool {
	data, err := m.Repo.Get(ctx, storage.CredentialKey)
	return err == nil && len(data) > 0
}

// Result of a guard check.
type Result struct {
	Allowed    bool
	RedirectTo string
}

type Guard struct {
	publicPaths []string
	marker      MarkerSource
}

func New(publicPaths []string, marker MarkerSource) *Guard {
	if publicPaths == nil {
		publicPaths = DefaultPublicPaths
	}
	return &Guard{publicPaths: publicPaths, marker: marker}
}

// Check classifies path at the moment of the call. Public paths pass
// unconditionally. Protected paths pass when a credential marker exists;
// otherwise the result redirects to the login entry with the originally
// requested path in the redirect parameter.
func (g *Guard) Check(ctx context.Context, path string) Result {
	if g.IsPublic(path) {
		return Result{Allowed: true}
	}
	if g.marker.HasCredential(ctx) {
		return Result{Allowed: true}
	}
	return Result{RedirectTo: LoginPath + "?redirect=" + url.QueryEscape(path)}
}

// IsPublic reports whether path matches one of the public prefixes.
// Classification does not depend on credential state.
func (g *Guard) IsPublic(path string) bool {
	for _, p := range g.publicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
