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
	"github.com/yumshare/yumshare-go/internal/middleware"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/validate"
)

// UserAPIHandler handles the authenticated user profile endpoints.
type UserAPIHandler struct {
	queries *store.Queries
}

// NewUserAPIHandler creates a new UserAPIHandler.
func NewUserAPIHandler(db *sql.DB) *UserAPIHandler {
	return &UserAPIHandler{queries: store.New(db)}
}

// Profile handles GET /api/user/profile. It returns the token holder's
// name and email along with their recipes.
func (h *UserAPIHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		writeAPIError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "failed to get user", "error", err, "user_id", claims.UserID)
		return
	}

	recipes, err := h.queries.ListRecipesByCreator(r.Context(), user.ID)
	if err != nil {
		writeServerError(w, "failed to list user recipes", "error", err, "user_id", user.ID)
		return
	}

	items := make([]map[string]any, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, map[string]any{
			"id":        recipe.ID,
			"title":     recipe.Title,
			"imageUrl":  imageURL(r, recipe.Image),
			"viewCount": recipe.ViewCount,
		})
	}

	writeAPISuccess(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"name":  user.Name,
			"email": user.Email,
		},
		"recipes": items,
	})
}

type updateNameRequest struct {
	NewName string `json:"newName"`
}

// UpdateName handles PATCH /api/user/updateName.
func (h *UserAPIHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		writeAPIError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.NewName == "" {
		writeAPIError(w, http.StatusBadRequest, "New name is required")
		return
	}

	user, err := h.queries.UpdateUserName(r.Context(), claims.UserID, req.NewName, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "failed to update name", "error", err, "user_id", claims.UserID)
		return
	}

	slog.Info("user name updated", "user_id", user.ID)
	writeAPISuccess(w, http.StatusOK, map[string]any{
		"message": "Name updated successfully",
		"user": map[string]any{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ChangePassword handles PATCH /api/user/changePassword. Validation runs in
// order and the first failure is reported alone.
func (h *UserAPIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		writeAPIError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	checks := []validate.Check{
		validate.NonEmpty(req.CurrentPassword, "Current password is required"),
	}
	checks = append(checks, validate.PasswordChecks(req.NewPassword)...)
	checks = append(checks,
		validate.NonEmpty(req.ConfirmNewPassword, "Confirm new password is required"),
		validate.Equal(req.ConfirmNewPassword, req.NewPassword, "New passwords do not match"),
	)
	if msg := validate.First(checks...); msg != "" {
		writeAPIError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "failed to get user", "error", err, "user_id", claims.UserID)
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		writeAPIError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	if auth.CheckPassword(req.NewPassword, user.PasswordHash) {
		writeAPIError(w, http.StatusBadRequest, "New password cannot be the same as the current password")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeServerError(w, "password hash error", "error", err)
		return
	}

	if err := h.queries.UpdateUserPassword(r.Context(), user.ID, hash, time.Now()); err != nil {
		writeServerError(w, "failed to update password", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("user password changed", "user_id", user.ID)
	writeAPISuccess(w, http.StatusOK, map[string]any{
		"message": "Password updated successfully",
	})
}
