package authgate

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the one way salted hash contract used by the gate.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// BcryptHasher implements PasswordHasher on top of x/crypto/bcrypt.
// Cost is tunable per deployment; the zero value uses the package default.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// range bcrypt accepts are clamped to the default so a bad config value
// can never silently downgrade to a trivial hash.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured bcrypt cost factor.
func (h *BcryptHasher) Cost() int {
	if h.cost == 0 {
		return passwordHashCost()
	}
	return h.cost
}

// HashPassword will generate a password hash. Each call salts
// independently, so identical inputs never produce identical outputs.
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost())
	if err != nil {
		// RNG or cost failure. Fatal to the caller, never fall back to a
		// weaker transform.
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(out), nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. Mismatches and malformed stored hashes
// both return ErrMismatchedHashAndPassword; the comparison itself is
// constant time inside bcrypt.
func (h *BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// dummyPasswordHash is compared against when a login misses the store, so
// the miss path costs a real bcrypt verification and response timing does
// not reveal whether the email exists. It is not a credential and matches
// no password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (h *BcryptHasher) compareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
}

var _ PasswordHasher = (*BcryptHasher)(nil)
