// Package auth holds the credential and session plumbing: bcrypt password
// hashing, the in-memory session store, and the middleware that resolves the
// session cookie into a user ID on each request.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, which is the point: it makes brute-force
// attacks expensive. It also generates a random salt per hash and embeds it
// in the output, so no separate salt column is needed. An earlier iteration
// of this app stored unsalted SHA-256 digests; those verify as "wrong
// password" here, which forces a re-register, an acceptable cost for a
// guest-list app.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor, roughly 250ms per hash on a modern
// server. Login is rare enough that this never matters operationally.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification. It is a struct
// rather than free functions so the cost can be lowered in tests.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Tests use bcrypt's minimum (4) to avoid the ~250ms per hash. Do not use
// in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The output string is self-contained
// (algorithm, cost, salt, digest) and is stored directly in the users table.
//
// Passwords over 72 bytes are rejected because bcrypt silently truncates
// them; better to fail loudly at registration.
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

// Verify checks a plaintext password against a stored hash. Returns nil on
// match. bcrypt compares in constant time, so this is safe against timing
// attacks.
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
