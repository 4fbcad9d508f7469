// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/yumshare/yumshare-go/internal/auth"
	"github.com/yumshare/yumshare-go/internal/middleware"
	"github.com/yumshare/yumshare-go/internal/render"
	"github.com/yumshare/yumshare-go/internal/store"
)

// AuthHandler handles admin console authentication.
type AuthHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// loginPageData feeds the login template; Message is the inline failure
// text shown above the form.
type loginPageData struct {
	Message string
}

// LoginForm renders the login page. Already-authenticated admins go
// straight to the home page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if adminID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAdminID); adminID > 0 {
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		return
	}

	h.renderLogin(w, r, "")
}

// Login handles the login form submission. Failures re-render the form
// with an inline message rather than redirecting.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	admin, err := h.queries.GetAdminByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("admin login failed: unknown username", "username", username)
			h.renderLogin(w, r, "Incorrect Username.")
			return
		}
		logAndInternalError(w, "database error during admin login", "error", err)
		return
	}

	if !auth.CheckPassword(password, admin.PasswordHash) {
		slog.Warn("admin login failed: wrong password", "username", username)
		h.renderLogin(w, r, "Incorrect password.")
		return
	}

	// Regenerate the session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminID, admin.ID)
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminUsername, admin.Username)

	slog.Info("admin logged in", "admin_id", admin.ID, "username", admin.Username)
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

// Logout destroys the admin session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	adminID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAdminID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndHTTPError(w, "Error logging out.", http.StatusInternalServerError,
			"failed to destroy session", "error", err, "admin_id", adminID)
		return
	}

	slog.Info("admin logged out", "admin_id", adminID)
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, message string) {
	err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Admin Login",
		Data:  loginPageData{Message: message},
	})
	if err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}
