package auth

import "time"

// Authority names granted by this application. Signup grants RoleUser;
// RoleAdmin is only assigned through seeded data or operator action.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the credential record held by the store: identity, bcrypt password
// hash, and the granted authority names. The hash is never serialized.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"-"`
	Authorities []string  `json:"authorities"`
	CreatedAt   time.Time `json:"created_at"`
}

// Principal is the authenticated identity for a single login attempt or a
// single request. It is never persisted; after login it travels inside the
// token, and per request it lives in the request context.
type Principal struct {
	Username    string
	Authorities []string
}

// HasAuthority reports whether the principal holds the named authority.
func (p Principal) HasAuthority(name string) bool {
	for _, a := range p.Authorities {
		if a == name {
			return true
		}
	}
	return false
}
