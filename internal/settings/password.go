package settings

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords are stored as bcrypt hashes. The random salt lives inside the
// stored hash, so no separate salt key is kept.

// IsPasswordSet reports whether a password hash exists in the settings file.
func (s *Store) IsPasswordSet() bool {
	return s.passwordHash() != ""
}

// SetPassword hashes and stores a new password.
func (s *Store) SetPassword(plaintext string) error {
	if plaintext == "" {
		return fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.setPasswordHash(string(hash))
}

// CheckPassword reports whether plaintext matches the stored hash. A hash in
// any other format simply fails the check until the password is reset.
func (s *Store) CheckPassword(plaintext string) bool {
	hash := s.passwordHash()
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
