// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yumshare/yumshare-go/internal/auth"
)

// ContextKeyClaims is the context key for verified token claims.
const ContextKeyClaims ContextKey = "claims"

// TokenAuth creates middleware that validates a Bearer token from the
// Authorization header and stores its claims in the request context. The
// claims establish identity only; block status is not re-checked here, so
// a user blocked after issuance keeps access until the token expires.
func TokenAuth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeTokenError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				writeTokenError(w, http.StatusBadRequest, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the verified token claims from the request context.
// Returns nil if the request did not pass TokenAuth.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func writeTokenError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
