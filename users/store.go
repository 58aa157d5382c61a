// Package users provides the PostgreSQL-backed credential store and the user
// lookup endpoints.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/authgate-go/auth"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Store implements auth.UserStore on top of a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates the user store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FindByUsername loads a user together with all of its granted authorities in
// a single query. Returns auth.ErrUserNotFound when no such user exists.
func (s *Store) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	const query = `
		SELECT u.id, u.username, u.password, u.created_at,
		       COALESCE(array_agg(ua.authority_name) FILTER (WHERE ua.authority_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_authority ua ON ua.user_id = u.id
		WHERE u.username = $1
		GROUP BY u.id`

	var user auth.User
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Password, &user.CreatedAt, &user.Authorities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	return &user, nil
}

// Create inserts the user and its authority grants in one transaction.
// Returns auth.ErrUsernameTaken on a duplicate username.
func (s *Store) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	// The token codec joins authorities with commas; a comma inside a name
	// would corrupt the claim.
	for _, a := range user.Authorities {
		if strings.Contains(a, ",") {
			return nil, fmt.Errorf("authority name %q must not contain a comma", a)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, created_at`,
		user.Username, user.Password,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, auth.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	for _, a := range user.Authorities {
		if _, err := tx.Exec(ctx,
			`INSERT INTO authorities (name) VALUES ($1) ON CONFLICT DO NOTHING`, a); err != nil {
			return nil, fmt.Errorf("insert authority %q: %w", a, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_authority (user_id, authority_name) VALUES ($1, $2)`,
			user.ID, a); err != nil {
			return nil, fmt.Errorf("grant authority %q: %w", a, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}
