package auth

import "context"

// contextKey is an unexported type for context keys so no other package can
// collide with or spoof the security context entry.
type contextKey int

const principalKey contextKey = iota

// WithPrincipal returns a child context carrying the authenticated principal.
// The token filter calls this at most once per request.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the current principal. The second return is
// false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
