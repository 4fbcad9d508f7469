// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yumshare/yumshare-go/internal/auth"
	"github.com/yumshare/yumshare-go/internal/model"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/testutil"
)

func authedJSON(t *testing.T, h http.HandlerFunc, user model.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withClaims(req, user.ID, user.Email)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type apiEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var resp apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestProfile(t *testing.T) {
	db := testDB(t)
	h := NewUserAPIHandler(db)

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "hash")
	testutil.CreateRecipe(t, db, user.ID, "Pancakes")
	testutil.CreateRecipe(t, db, user.ID, "Waffles")

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil), user.ID, user.Email)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
		Recipes []struct {
			Title    string `json:"title"`
			ImageURL string `json:"imageUrl"`
		} `json:"recipes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.User.Name != "Alice" || resp.User.Email != "alice@example.com" {
		t.Errorf("user = %+v", resp.User)
	}
	if len(resp.Recipes) != 2 {
		t.Fatalf("recipes = %d, want 2", len(resp.Recipes))
	}
	for _, recipe := range resp.Recipes {
		if !strings.HasPrefix(recipe.ImageURL, "http://") {
			t.Errorf("imageUrl %q is not absolute", recipe.ImageURL)
		}
	}
}

func TestProfileWithoutClaims(t *testing.T) {
	db := testDB(t)
	h := NewUserAPIHandler(db)

	rec := httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "User ID is required" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestUpdateName(t *testing.T) {
	db := testDB(t)
	h := NewUserAPIHandler(db)
	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "hash")

	t.Run("missing name", func(t *testing.T) {
		rec := authedJSON(t, h.UpdateName, user, `{"newName":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp := decodeEnvelope(t, rec); resp.Message != "New name is required" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("renames and persists", func(t *testing.T) {
		rec := authedJSON(t, h.UpdateName, user, `{"newName":"Alicia"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if resp := decodeEnvelope(t, rec); !resp.Success || resp.Message != "Name updated successfully" {
			t.Errorf("envelope = %+v", resp)
		}

		stored, err := store.New(db).GetUserByID(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetUserByID: %v", err)
		}
		if stored.Name != "Alicia" {
			t.Errorf("stored name = %q, want %q", stored.Name, "Alicia")
		}
	})
}

func TestChangePassword(t *testing.T) {
	db := testDB(t)
	h := NewUserAPIHandler(db)

	hash, err := auth.HashPassword("current!1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", hash)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing current password",
			body:        `{"newPassword":"fresh!1","confirmNewPassword":"fresh!1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Current password is required",
		},
		{
			name:        "weak new password",
			body:        `{"currentPassword":"current!1","newPassword":"abcdef1","confirmNewPassword":"abcdef1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must contain at least one special character",
		},
		{
			name:        "missing confirmation",
			body:        `{"currentPassword":"current!1","newPassword":"fresh!1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Confirm new password is required",
		},
		{
			name:        "confirmation mismatch",
			body:        `{"currentPassword":"current!1","newPassword":"fresh!1","confirmNewPassword":"other!1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "New passwords do not match",
		},
		{
			name:        "wrong current password",
			body:        `{"currentPassword":"wrong!1","newPassword":"fresh!1","confirmNewPassword":"fresh!1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Current password is incorrect",
		},
		{
			name:        "new password equals current",
			body:        `{"currentPassword":"current!1","newPassword":"current!1","confirmNewPassword":"current!1"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "New password cannot be the same as the current password",
		},
		{
			name:        "success",
			body:        `{"currentPassword":"current!1","newPassword":"fresh!1","confirmNewPassword":"fresh!1"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "Password updated successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authedJSON(t, h.ChangePassword, user, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp := decodeEnvelope(t, rec); resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}

	stored, err := store.New(db).GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !auth.CheckPassword("fresh!1", stored.PasswordHash) {
		t.Error("new password does not verify after change")
	}
}
