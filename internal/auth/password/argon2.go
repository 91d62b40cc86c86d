// Package password hashes and verifies user passwords with argon2id.
package password

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

type Hasher struct {
	params *argon2id.Params
}

func NewDefault() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

// New is mostly for tests, which use cheaper parameters.
func New(p *argon2id.Params) *Hasher { return &Hasher{params: p} }

// Hash returns a PHC-encoded string ($argon2id$v=19$m=...,t=...,p=...$salt$key).
// Every call draws a fresh salt, so two hashes of the same password differ.
// Empty passwords are accepted; policy lives with the caller.
func (h *Hasher) Hash(plain string) (string, error) {
	if h == nil || h.params == nil {
		return "", errors.New("argon2id params not set")
	}
	encoded, err := argon2id.CreateHash(plain, h.params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return encoded, nil
}

// Verify reports whether plain matches encoded. A malformed stored hash is a
// mismatch, not an error.
func (h *Hasher) Verify(plain, encoded string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plain, encoded)
	if err != nil {
		return false
	}
	return ok
}
