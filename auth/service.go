// Package auth implements credential verification, token issuance, the
// request-time bearer token filter, and the route/operation authorization
// gates.
package auth

import (
	"context"
	"errors"

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/token"
)

// invalidCredentialsMsg is shared by the unknown-user and bad-password paths
// so responses never reveal which one failed.
const invalidCredentialsMsg = "invalid credentials"

// Service is the authenticator: it verifies credentials against the user
// store and issues signed tokens.
type Service struct {
	store  UserStore
	hasher PasswordHasher
	tokens *token.Provider
}

// NewService wires the authenticator's collaborators.
func NewService(store UserStore, hasher PasswordHasher, tokens *token.Provider) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

// Authenticate verifies a username/password pair and returns a signed token
// embedding the user's authorities. Unknown user and wrong password both
// surface as the same authentication failure.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewAuthError(invalidCredentialsMsg, nil)
		}
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.Password, req.Password); err != nil {
		return nil, apperror.NewAuthError(invalidCredentialsMsg, nil)
	}

	signed, err := s.tokens.Encode(user.Username, user.Authorities)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: signed}, nil
}

// Signup creates a new user with a hashed password and the ROLE_USER grant.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:    req.Username,
		Password:    hashed,
		Authorities: []string{RoleUser},
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, apperror.NewConflictError("username already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return created, nil
}
