package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts the adaptive password hash so the authenticator
// can be tested without paying bcrypt cost and the primitive can be swapped.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	// Compare returns nil when raw matches the stored hash.
	Compare(hashed, raw string) error
}

// BcryptHasher is the production PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using the bcrypt default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hashed, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw))
}
