package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/codetrack-app/codetrack/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query :=
		`SELECT id, username, email, avatar, profile_url, provider, subscription_tier, is_private
		 FROM users
		 WHERE id = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Avatar,
		&user.ProfileURL, &user.Provider, &user.SubscriptionTier, &user.Private)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByProviderLogin(ctx context.Context, provider, username string) (*User, error) {
	query :=
		`SELECT id, username, email, avatar, profile_url, provider, subscription_tier, is_private
		 FROM users
		 WHERE provider = $1 AND username = $2
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, provider, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.Avatar,
		&user.ProfileURL, &user.Provider, &user.SubscriptionTier, &user.Private)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (username, email, avatar, profile_url, provider, subscription_tier, is_private)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Avatar, user.ProfileURL,
		user.Provider, user.SubscriptionTier, user.Private).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateProfile refreshes the mutable fields the provider reports on every
// sign-in.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int64, email, profileURL string) error {
	query :=
		`UPDATE users SET email = $2, profile_url = $3
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, email, profileURL); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetAvatar(ctx context.Context, id int64, key string) error {
	query :=
		`UPDATE users SET avatar = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
