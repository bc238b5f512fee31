package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const dummyPassword = "jupiter-timing-pad"

// NewDummyHash returns a bcrypt hash at cost that no real password is expected to match.
// Verifying against it when no user matches makes a miss cost the same as a wrong password
// for users hashed at that cost.
func NewDummyHash(cost int) (string, error) {
	return HashPassword(dummyPassword, cost)
}

// PasswordVerifier compares a plaintext password against a stored hash.
// A mismatch is (false, nil); an error means the comparison itself could not be made.
type PasswordVerifier interface {
	Verify(password, hash string) (bool, error)
}

// BcryptVerifier verifies bcrypt hashes.
type BcryptVerifier struct{}

var _ PasswordVerifier = BcryptVerifier{}

// Verify implements PasswordVerifier.
func (BcryptVerifier) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// HashPassword hashes a plaintext password with the given bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
