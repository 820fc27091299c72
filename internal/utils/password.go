package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost tuned for interactive login latency on the POS terminals.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash for storage alongside the user record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
