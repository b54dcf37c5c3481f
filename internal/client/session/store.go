// Package session implements the client-side authentication lifecycle: the
// credential store, the verification step, the OAuth callback state machine,
// and rehydration of a prior session at startup.
package session

import "sync"

// Snapshot is an immutable view of the store handed to subscribers and
// readers. Epoch increases on every SetToken and Logout; a verification
// result may only be applied while the epoch it was issued under is still
// current.
type Snapshot struct {
	Token string
	User  *User
	Epoch uint64
}

// Store is the single source of truth for the credential. It is a pure state
// machine: no I/O happens here. Side effects (durable persistence) are
// applied by subscribers, which are invoked synchronously inside each
// mutation so no component can observe a half-applied change.
//
// Subscribers must not call back into the store.
type Store struct {
	mu    sync.Mutex
	token string
	user  *User
	epoch uint64
	subs  []func(Snapshot)
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run synchronously after every mutation.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notifyLocked() {
	snap := Snapshot{Token: s.token, User: s.user, Epoch: s.epoch}
	for _, fn := range s.subs {
		fn(snap)
	}
}

// SetToken replaces the token and invalidates any previously confirmed user:
// a user record is only valid for the verification keyed by the token it was
// obtained under. Returns the new epoch, which callers pass to SetUserIf /
// LogoutIf to discard stale asynchronous results.
func (s *Store) SetToken(token string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
	s.epoch++
	s.notifyLocked()
	return s.epoch
}

// SetUserIf applies the confirmed user only when epoch is still current.
// Returns false when the result is stale (a logout or a newer login happened
// while the verification was in flight).
func (s *Store) SetUserIf(user *User, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.user = user
	s.notifyLocked()
	return true
}

// Logout atomically clears token and user. Safe to call when already logged
// out; subscribers still run so durable state is removed in either case.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.epoch++
	s.notifyLocked()
}

// LogoutIf clears the session only when epoch is still current. Used by
// failure paths of in-flight verifications so a late failure cannot tear
// down a session established after it started.
func (s *Store) LogoutIf(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.token = ""
	s.user = nil
	s.epoch++
	s.notifyLocked()
	return true
}

// Token returns the current bearer token ("" when logged out). The HTTP
// binding calls this at request-build time.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Epoch returns the current epoch.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Snapshot returns a consistent view of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Token: s.token, User: s.user, Epoch: s.epoch}
}

// Authenticated reports whether both token and confirmed user are present.
// A token without a user is a pending session and does not count.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}
