// Package token implements the signed access token codec. A token embeds the
// subject username and its granted authorities, signed with HS512 over a
// process-wide shared secret. Tokens are the only request-time source of
// authority information; nothing is stored server-side.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/config"
)

// authoritiesClaim is the claim key carrying the authority list.
const authoritiesClaim = "auth"

// authorityDelimiter joins authority names inside the claim. Authority names
// are ROLE_* style identifiers and never contain commas; the users store
// enforces that.
const authorityDelimiter = ","

var (
	// ErrInvalidToken marks a token whose signature or structure failed
	// verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired marks a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the decoded token payload.
type Claims struct {
	Auth string `json:"auth"`
	jwt.RegisteredClaims
}

// Authorities returns the authority names carried by the token. An empty
// claim decodes to an empty set.
func (c *Claims) Authorities() []string {
	if c.Auth == "" {
		return nil
	}
	return strings.Split(c.Auth, authorityDelimiter)
}

// Provider encodes and decodes access tokens. It is immutable after
// construction and safe for concurrent use.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

// NewProvider validates the signing configuration and returns a Provider.
// A missing or short secret is a startup-fatal configuration error.
func NewProvider(cfg *config.AuthConfig) (*Provider, error) {
	if len(cfg.JWTSecret) < config.MinSecretLen {
		return nil, apperror.NewConfigError(
			fmt.Sprintf("token signing secret must be at least %d bytes", config.MinSecretLen), nil)
	}
	if cfg.TokenDuration <= 0 {
		return nil, apperror.NewConfigError("token duration must be positive", nil)
	}
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenDuration,
	}, nil
}

// Encode signs a token for the given subject carrying its authority set.
// The authority set may be empty.
func (p *Provider) Encode(username string, authorities []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Auth: strings.Join(authorities, authorityDelimiter),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode parses and verifies a token string. It returns ErrTokenExpired for a
// well-signed token past its expiry and ErrInvalidToken for every other
// failure. Callers treat both as "not authenticated".
func (p *Provider) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
