// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yumshare/yumshare-go/internal/auth"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/validate"
)

// AuthAPIHandler handles public signup and login for the JSON API.
type AuthAPIHandler struct {
	queries *store.Queries
	tokens  *auth.TokenIssuer
}

// NewAuthAPIHandler creates a new AuthAPIHandler.
func NewAuthAPIHandler(db *sql.DB, tokens *auth.TokenIssuer) *AuthAPIHandler {
	return &AuthAPIHandler{
		queries: store.New(db),
		tokens:  tokens,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/signup.
func (h *AuthAPIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Checked in the order email, password, name: a request failing several
	// checks reports the email message.
	checks := []validate.Check{
		validate.EmailAddress(req.Email),
	}
	checks = append(checks, validate.PasswordChecks(req.Password)...)
	checks = append(checks, validate.MinLen(req.Name, 3, "Name should be at least 3 characters long"))
	if msg := validate.First(checks...); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.queries.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeMessage(w, http.StatusBadRequest, "Email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("database error during signup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hash error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	writeMessage(w, http.StatusCreated, "User created successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login. Unknown email and wrong password produce
// the identical message so accounts cannot be enumerated. Blocked accounts
// are rejected before the password is checked.
func (h *AuthAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if user.IsBlocked {
		slog.Warn("login attempt on blocked account", "user_id", user.ID)
		writeMessage(w, http.StatusForbidden, "Your account has been blocked.")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"email":   user.Email,
		"name":    user.Name,
	})
}
