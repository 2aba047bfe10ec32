package helpers

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordMinLength = 6
	PasswordMaxLength = 128

	// bcrypt reads at most 72 bytes of input. Longer passwords are truncated
	// before hashing so the whole policy range hashes without error, the same
	// behavior as bcryptjs in the original backend.
	bcryptMaxBytes = 72
)

// ValidatePassword enforces the password policy. Lengths are counted in
// characters, not bytes. The returned message is shown to the caller
// verbatim, so keep it human-readable.
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		return false, fmt.Sprintf("Password must be at least %d characters", PasswordMinLength)
	}
	if n > PasswordMaxLength {
		return false, fmt.Sprintf("Password must be less than %d characters", PasswordMaxLength)
	}
	return true, "Password is valid"
}

func bcryptInput(plain string) []byte {
	b := []byte(plain)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

// HashPassword hashes the plain text password using bcrypt with the given
// cost. The digest embeds salt and cost, so verification needs no extra state.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(bcryptInput(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plain)) == nil
}
