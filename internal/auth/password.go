package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit. Validation tags count runes, so
// multibyte passwords are checked here in bytes.
const maxPasswordBytes = 72

var (
	ErrPasswordTooLong  = fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
	ErrPasswordMismatch = errors.New("password does not match")
)

// PasswordCost is the bcrypt cost for new hashes. Tests lower it to bcrypt.MinCost.
var PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns nil when password matches hash, ErrPasswordMismatch when
// it does not, and a wrapped error when the stored hash is unusable.
func VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("stored password hash unusable: %w", err)
	}
}
