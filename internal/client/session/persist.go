package session

import (
	"context"
	"encoding/json"

	"github.com/codetrack-app/codetrack/internal/client/storage"
	"github.com/codetrack-app/codetrack/internal/logging"
)

// Credential is the serialized form kept in the durable cache.
type Credential struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Persistence mirrors store changes into the durable cache. It is the effect
// boundary: the store stays pure and this subscriber applies its snapshots.
// Cache failures are logged and swallowed; persistence problems must never
// break the in-memory session.
type Persistence struct {
	repo storage.Repository
	log  logging.Logger
}

func NewPersistence(repo storage.Repository, log logging.Logger) *Persistence {
	return &Persistence{repo: repo, log: log}
}

// Attach subscribes to the store. ctx bounds the cache writes triggered by
// store mutations for the lifetime of the app.
func (p *Persistence) Attach(ctx context.Context, store *Store) {
	store.Subscribe(func(snap Snapshot) {
		p.apply(ctx, snap)
	})
}

func (p *Persistence) apply(ctx context.Context, snap Snapshot) {
	if snap.Token == "" {
		// the cache holds nothing but session state; logout wipes it
		// wholesale, legacy bare-token key included
		if err := p.repo.Clear(ctx); err != nil {
			p.log.Warn(ctx, "failed to clear credential cache", "error", err)
		}
		return
	}

	data, err := json.Marshal(Credential{Token: snap.Token, User: snap.User})
	if err != nil {
		p.log.Warn(ctx, "failed to serialize credential", "error", err)
		return
	}
	if err := p.repo.Set(ctx, storage.CredentialKey, data); err != nil {
		p.log.Warn(ctx, "failed to persist credential", "error", err)
	}
}

// Load reads the persisted credential, falling back to the legacy bare-token
// key written by older clients. Unavailable or corrupt storage means "no
// prior session": Load never fails, it returns nil.
func (p *Persistence) Load(ctx context.Context) *Credential {
	data, err := p.repo.Get(ctx, storage.CredentialKey)
	if err != nil {
		p.log.Warn(ctx, "credential cache unreadable, starting logged out", "error", err)
		return nil
	}
	if data != nil {
		var cred Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			p.log.Warn(ctx, "cached credential is corrupt, starting logged out", "error", err)
			return nil
		}
		if cred.Token == "" {
			return nil
		}
		return &cred
	}

	legacy, err := p.repo.Get(ctx, storage.LegacyTokenKey)
	if err != nil || len(legacy) == 0 {
		return nil
	}
	return &Credential{Token: string(legacy)}
}
