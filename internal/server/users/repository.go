package users

import "context"

// Repository is the persistence surface for accounts.
type Repository interface {
	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetOrCreate finds the account linked to (provider, username) or
	// creates it from the given profile.
	GetOrCreate(ctx context.Context, user *User) (*User, error)
	// SetAvatar stores the avatar object key on the user record.
	SetAvatar(ctx context.Context, id int64, key string) error
}
