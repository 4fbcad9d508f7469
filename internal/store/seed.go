// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yumshare/yumshare-go/internal/auth"
)

// Seed creates the initial console admin account if it does not exist yet.
// Credentials come from configuration so the deployment controls them.
func Seed(ctx context.Context, db *sql.DB, username, password string) error {
	if username == "" || password == "" {
		slog.Info("admin seed credentials not configured, skipping seed")
		return nil
	}

	queries := New(db)

	_, err := queries.GetAdminByUsername(ctx, username)
	if err == nil {
		slog.Info("admin account already exists, skipping seed", "username", username)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin, err := queries.CreateAdmin(ctx, username, passwordHash)
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("created console admin account", "id", admin.ID, "username", admin.Username)
	return nil
}
