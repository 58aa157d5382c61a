package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/config"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.AuthConfig{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ShortSecret(t *testing.T) {
	_, err := NewProvider(&config.AuthConfig{
		JWTSecret:     "too-short",
		TokenDuration: time.Hour,
	})
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ConfigError, appErr.Type)
}

func TestNewProvider_NonPositiveDuration(t *testing.T) {
	_, err := NewProvider(&config.AuthConfig{
		JWTSecret:     testSecret,
		TokenDuration: 0,
	})
	require.Error(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.Encode("alice", []string{"ROLE_USER", "ROLE_ADMIN"})
	require.NoError(t, err)

	claims, err := p.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, claims.Authorities())
}

func TestEncodeDecode_EmptyAuthoritySet(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.Encode("bob", nil)
	require.NoError(t, err)

	claims, err := p.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Empty(t, claims.Authorities())
}

func TestDecode_WrongKey(t *testing.T) {
	p := newTestProvider(t)
	other, err := NewProvider(&config.AuthConfig{
		JWTSecret:     strings.Repeat("x", 64),
		TokenDuration: time.Hour,
	})
	require.NoError(t, err)

	signed, err := p.Encode("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	_, err = other.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_TamperedToken(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.Encode("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	// Flip the last character of the signature.
	last := signed[len(signed)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := signed[:len(signed)-1] + string(flipped)

	_, err = p.Decode(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_Malformed(t *testing.T) {
	p := newTestProvider(t)

	for _, tok := range []string{"not.a.jwt", "garbage", ""} {
		_, err := p.Decode(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestDecode_Expired(t *testing.T) {
	p := newTestProvider(t)

	// Craft a well-signed token that expired an hour ago.
	now := time.Now()
	claims := &Claims{
		Auth: "ROLE_USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(p.secret)
	require.NoError(t, err)

	_, err = p.Decode(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecode_MissingSubject(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.Encode("", []string{"ROLE_USER"})
	require.NoError(t, err)

	_, err = p.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_RejectsNonHMACAlg(t *testing.T) {
	p := newTestProvider(t)

	// alg=none tokens must never verify.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
