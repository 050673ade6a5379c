// Package auth — password hashing utilities.
//
// The historical version of this application stored passwords in plain text
// and compared them with string equality. That is replaced here with bcrypt:
// random per-password salt, tunable work factor, and a constant-time compare
// inside CompareHashAndPassword. The plaintext never touches the database.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on a
// modern server — negligible for a login, brutal for an attacker hashing
// billions of guesses.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
// It's a struct (not free functions) so the cost can be injected: tests use
// the minimum cost to avoid paying 250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given cost.
// Passing 0 selects the default cost (12).
func NewPasswordService(cost int) *PasswordService {
	if cost == 0 {
		cost = defaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password with bcrypt. The output embeds the salt
// and cost, so it can be stored as a single string and verified later with
// nothing but the candidate password.
//
// bcrypt silently truncates inputs longer than 72 bytes; we reject them
// explicitly instead. In practice the validation layer caps passwords at 50
// characters, so this limit is never reached through the normal flow.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on a match. The comparison is constant-time internally, so the
// response time doesn't reveal how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
