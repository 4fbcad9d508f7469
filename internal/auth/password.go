// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and stateless API token
// issuance/verification for user and admin authentication.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for all stored credentials.
const PasswordCost = 10

// HashPassword creates a salted bcrypt hash of the password. The plaintext
// is never stored or logged anywhere.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a stored bcrypt hash.
// A mismatch is reported as false, never as an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
