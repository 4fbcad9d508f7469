// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate implements the ordered validation pipeline used by the
// API handlers. Checks run in declaration order and the first failure wins;
// failures are never aggregated.
package validate

import (
	"net/mail"
	"strings"
)

// specialChars are the characters that satisfy the password composition rule.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// Password length bounds.
const (
	PasswordMinLength = 6
	PasswordMaxLength = 20
)

// A Check inspects one value and returns an error message, or the empty
// string when the value passes.
type Check func() string

// First runs checks in order and returns the first failure message, or the
// empty string if every check passes.
func First(checks ...Check) string {
	for _, check := range checks {
		if msg := check(); msg != "" {
			return msg
		}
	}
	return ""
}

// NonEmpty fails with message when the trimmed value is empty.
func NonEmpty(value, message string) Check {
	return func() string {
		if strings.TrimSpace(value) == "" {
			return message
		}
		return ""
	}
}

// MinLen fails with message when the value is shorter than n.
func MinLen(value string, n int, message string) Check {
	return func() string {
		if len(value) < n {
			return message
		}
		return ""
	}
}

// MaxLen fails with message when the value is longer than n.
func MaxLen(value string, n int, message string) Check {
	return func() string {
		if len(value) > n {
			return message
		}
		return ""
	}
}

// EmailAddress fails when the value is not a parseable address.
func EmailAddress(value string) Check {
	return func() string {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return "Please enter a valid email address"
		}
		return ""
	}
}

// ContainsSpecial fails with message when the value has none of the
// required special characters.
func ContainsSpecial(value, message string) Check {
	return func() string {
		if !strings.ContainsAny(value, specialChars) {
			return message
		}
		return ""
	}
}

// OneOf fails with message when the value is not in the allowed set.
func OneOf(value string, allowed []string, message string) Check {
	return func() string {
		for _, a := range allowed {
			if value == a {
				return ""
			}
		}
		return message
	}
}

// Positive fails with message when n is less than 1.
func Positive(n int64, message string) Check {
	return func() string {
		if n < 1 {
			return message
		}
		return ""
	}
}

// Equal fails with message when the two values differ.
func Equal(a, b, message string) Check {
	return func() string {
		if a != b {
			return message
		}
		return ""
	}
}

// PasswordChecks returns the composition checks for a password, in the
// order they are reported.
func PasswordChecks(password string) []Check {
	return []Check{
		MinLen(password, PasswordMinLength, "Password must be at least 6 characters long"),
		MaxLen(password, PasswordMaxLength, "Password cannot be longer than 20 characters"),
		ContainsSpecial(password, "Password must contain at least one special character"),
	}
}
