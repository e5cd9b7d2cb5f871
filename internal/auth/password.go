// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match.
// The API maps it to a generic 401 so login errors never reveal
// whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// minPasswordLen is the shortest password accepted at registration.
const minPasswordLen = 8

// Hasher wraps bcrypt with a configured cost.
type Hasher struct {
	cost int
}

// NewHasher creates a password hasher. Cost bounds are enforced by
// config validation.
func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash derives a bcrypt hash from a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a plaintext password against a stored hash.
func (h *Hasher) Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
