package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/codetrack-app/codetrack/internal/dbx"
)

// Service implements Repository on top of PostgresRepository, running
// multi-statement account work inside a transaction.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return NewPostgresRepository(s.db).GetByID(ctx, id)
}

// GetOrCreate settles the account for a completed provider sign-in: an
// existing account gets its profile fields refreshed, a first sign-in gets a
// new row. Lookup and write happen in one transaction; the unique
// (provider, username) constraint backs the concurrent first-login race.
func (s *Service) GetOrCreate(ctx context.Context, user *User) (*User, error) {
	var out *User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx)

		existing, err := repo.GetByProviderLogin(ctx, user.Provider, user.Username)
		if err == nil {
			if err := repo.UpdateProfile(ctx, existing.ID, user.Email, user.ProfileURL); err != nil {
				return err
			}
			existing.Email = user.Email
			existing.ProfileURL = user.ProfileURL
			out = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) SetAvatar(ctx context.Context, id int64, key string) error {
	return NewPostgresRepository(s.db).SetAvatar(ctx, id, key)
}
