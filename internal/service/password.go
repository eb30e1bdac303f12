package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and verifies credentials. Stored values that are not
// bcrypt hashes are legacy plaintext and compared in constant time.
type Passwords struct {
	cost int
}

func NewPasswords(cost int) *Passwords {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Passwords{cost: cost}
}

func (p *Passwords) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

func (p *Passwords) Verify(stored, password string) bool {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}
