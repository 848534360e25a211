package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known passwordHash and user provided password
	// Must be protected against timing attacks
	// Any error (malformed hash included) reads as mismatch
	Compare(passwordHash string, password string) error
}

// Bcrypt password hasher with configurable cost
//
// Passwords are pre-hashed with sha256 so bcrypt's 72 byte input limit never
// silently truncates long passphrases. Each digest carries its own salt, so
// two hashes of the same password differ.
type BcryptHasher struct {
	// bcrypt work factor; 0 means bcrypt.DefaultCost
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], h.cost())
	return string(hash), err
}

func (h BcryptHasher) Compare(passwordHash string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), sum[:])
}
