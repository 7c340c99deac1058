package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/sharek-engine/internal/config"
	"github.com/spec-kit/sharek-engine/internal/domain"
)

// PasswordHasher turns a submitted password into its stored form and compares them.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(stored, plain string) bool
}

// PlaintextHasher stores passwords verbatim and compares by equality.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(plain string) (string, error) { return plain, nil }

func (PlaintextHasher) Compare(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// BcryptHasher stores salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

// Hash hashes a plaintext password with the configured cost. Passwords bcrypt
// cannot take come back as a password ValidationError.
func (b BcryptHasher) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies a password against its hashed value.
func (b BcryptHasher) Compare(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewPasswordHasher picks the hasher named by cfg.
func NewPasswordHasher(cfg config.AuthConfig) PasswordHasher {
	if cfg.PasswordMode == config.PasswordModeBcrypt {
		return BcryptHasher{Cost: cfg.BcryptCost}
	}
	return PlaintextHasher{}
}
