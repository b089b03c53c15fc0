package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword signals a password that does not match its stored hash.
var ErrInvalidPassword = errors.New("invalid password")

// HashPassword creates a bcrypt hash of the password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// IsHashStale reports whether a stored hash was produced at a lower cost than
// the currently configured one. Stale hashes are upgraded from the verified
// plaintext at login time, never re-hashed blindly.
func IsHashStale(hash string, cost int) bool {
	hashCost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		// Not a bcrypt hash at all; treat as legacy.
		return true
	}
	return hashCost < cost
}
