// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades roughly 250ms of hashing per login attempt for brute
// force resistance.
const bcryptCost = 12

// CredentialManager verifies the admin credential pair. The password is
// hashed once at startup so login requests only pay the compare cost.
type CredentialManager struct {
	username     string
	passwordHash []byte
}

// NewCredentialManager creates a credential manager for the configured
// admin user.
func NewCredentialManager(username, password string) (*CredentialManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &CredentialManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// Verify reports whether the provided credentials match the admin pair.
// Both comparisons run regardless of the username result so response
// timing does not reveal which field was wrong.
func (m *CredentialManager) Verify(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}
