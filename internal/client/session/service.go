package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codetrack-app/codetrack/internal/logging"
)

// Navigation targets used by the lifecycle.
const (
	PathDashboard       = "/dashboard"
	PathLoginNoToken    = "/auth?error=no_token"
	PathLoginAuthFailed = "/auth?error=callback_failed"
)

var (
	// ErrMissingToken: the callback was reached without a token parameter.
	ErrMissingToken = errors.New("no token provided")
	// ErrSuperseded: a verification result arrived for a session that no
	// longer exists (logout or a newer login happened in the meantime).
	ErrSuperseded = errors.New("session superseded")
)

// Verifier exchanges the currently attached bearer token for a confirmed
// user identity.
type Verifier interface {
	Verify(ctx context.Context) (*User, error)
}

// Navigator moves the user to another route, replacing the current one.
type Navigator interface {
	Replace(path string)
}

// Service drives the session lifecycle around the Store: completing the
// OAuth callback, revalidating a rehydrated token, and logging out.
type Service struct {
	store    *Store
	verifier Verifier
	nav      Navigator
	persist  *Persistence
	log      logging.Logger
	timeout  time.Duration
}

func NewService(store *Store, verifier Verifier, nav Navigator, persist *Persistence, log logging.Logger, timeout time.Duration) *Service {
	return &Service{store: store, verifier: verifier, nav: nav, persist: persist, log: log, timeout: timeout}
}

// HandleCallback completes a login after the provider redirected back with
// an opaque token.
//
// Missing token is terminal: back to the login entry, no store mutation.
// Otherwise the token is attached optimistically, then verified. Success
// confirms the user and lands on the dashboard; any failure tears the
// session down completely and returns to the login entry. Either way the
// system settles fully logged in or fully logged out.
//
// Invoking the handler again with the same token re-derives the same
// terminal state; a verification that outlives its session is discarded
// without touching the session that superseded it.
func (s *Service) HandleCallback(ctx context.Context, token string) error {
	if token == "" {
		s.log.Warn(ctx, "callback reached without a token")
		s.nav.Replace(PathLoginNoToken)
		return ErrMissingToken
	}

	// Attach before verifying: Verify relies on the bound token.
	epoch := s.store.SetToken(token)

	user, err := s.verify(ctx)
	if err != nil {
		s.log.Warn(ctx, "session verification failed", "error", err)
		if s.store.LogoutIf(epoch) {
			s.nav.Replace(PathLoginAuthFailed)
		}
		return fmt.Errorf("authentication failed: %w", err)
	}

	if !s.store.SetUserIf(user, epoch) {
		s.log.Debug(ctx, "discarding stale verification result")
		return ErrSuperseded
	}

	s.log.Info(ctx, "session established", "user", user.Username)
	s.nav.Replace(PathDashboard)
	return nil
}

// Rehydrate restores a previously persisted token exactly once at startup.
// The token is re-attached speculatively; the session stays pending (not
// authenticated) until Revalidate confirms it. Returns true when a token was
// restored. Never fails: broken storage means starting logged out.
func (s *Service) Rehydrate(ctx context.Context) bool {
	cred := s.persist.Load(ctx)
	if cred == nil {
		return false
	}
	s.store.SetToken(cred.Token)
	s.log.Debug(ctx, "restored persisted session token")
	return true
}

// Revalidate confirms a pending (rehydrated) token with the backend.
// On any failure the session is torn down, unless a newer session replaced
// it while the call was in flight.
func (s *Service) Revalidate(ctx context.Context) bool {
	if s.store.Token() == "" {
		return false
	}
	epoch := s.store.Epoch()

	user, err := s.verify(ctx)
	if err != nil {
		s.log.Warn(ctx, "session revalidation failed", "error", err)
		s.store.LogoutIf(epoch)
		return false
	}
	return s.store.SetUserIf(user, epoch)
}

// Logout clears the session. Idempotent; after it returns, neither the
// in-memory credential nor any persisted copy remains.
func (s *Service) Logout() {
	s.store.Logout()
}

// IsAuthenticated reports whether a confirmed session exists.
func (s *Service) IsAuthenticated() bool {
	return s.store.Authenticated()
}

// CurrentUser returns the confirmed user, or nil while logged out/pending.
func (s *Service) CurrentUser() *User {
	return s.store.Snapshot().User
}

// Pending reports whether a token is attached but not yet confirmed, the
// state a rehydrated session is in before Revalidate settles it.
func (s *Service) Pending() bool {
	snap := s.store.Snapshot()
	return snap.Token != "" && snap.User == nil
}

func (s *Service) verify(ctx context.Context) (*User, error) {
	// A verification that never resolves would strand the user on the
	// callback; bound it and treat expiry as a verification failure.
	vctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.verifier.Verify(vctx)
}
