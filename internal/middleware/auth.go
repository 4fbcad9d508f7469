// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization and request context handling.
package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Session keys for the authenticated admin.
const (
	SessionKeyAdminID       = "admin_id"
	SessionKeyAdminUsername = "admin_username"
)

// Auth creates middleware that requires an authenticated admin session.
// Requests without one are redirected to the login page; this gate never
// writes a JSON error body.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := sm.GetInt64(r.Context(), SessionKeyAdminID)
			if adminID == 0 {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
