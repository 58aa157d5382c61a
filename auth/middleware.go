package auth

import (
	"net/http"
	"strings"

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/token"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "bearer"
)

// bearerToken extracts the bearer token from the request, returning "" when
// no bearer credential is present.
func bearerToken(r *http.Request) string {
	header := r.Header.Get(authorizationHeader)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TokenFilter decodes the bearer token, if any, and installs the resulting
// principal into the request context. It never rejects: a missing, malformed,
// expired, or forged token leaves the request anonymous and passes it through,
// so public routes stay reachable regardless of what the header carries.
// Rejection is the authorization gates' job.
func TokenFilter(tokens *token.Provider) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Decode(raw)
			if err != nil {
				// Invalid and expired tokens alike: stay anonymous.
				next.ServeHTTP(w, r)
				return
			}

			principal := Principal{
				Username:    claims.Subject,
				Authorities: claims.Authorities(),
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401. Routes behind it
// can rely on a principal being present in the context.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthority wraps a handler with an operation-level authority check:
// 401 for anonymous callers, 403 for an authenticated principal lacking the
// authority.
func RequireAuthority(authority string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}
		if !principal.HasAuthority(authority) {
			WriteError(w, r, apperror.NewForbiddenError("insufficient authority", nil))
			return
		}
		next(w, r)
	}
}
