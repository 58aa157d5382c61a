package auth

import (
	"context"
	"errors"
)

// Sentinel errors returned by UserStore implementations. The service maps
// them to client-facing errors; they never reach a response body directly.
var (
	// ErrUserNotFound means no user matches the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken means the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserStore is the credential store boundary. FindByUsername must return the
// user's authorities eagerly: the token embeds them at issuance and no
// per-request re-query happens afterwards.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}
