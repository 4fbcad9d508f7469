// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/yumshare/yumshare-go/internal/model"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/testutil"
)

func newTestLogger(t *testing.T) (*slog.Logger, *store.Queries) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, db)), store.New(db)
}

func TestWarningsAreMirrored(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.Info("user logged in", "user_id", 1)
	logger.Warn("login attempt on blocked account", "user_id", 1)
	logger.Error("failed to store image", "error", "disk full")

	events, err := queries.ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (INFO must not be mirrored)", len(events))
	}

	// Newest first.
	if events[0].Level != model.EventLevelError || events[0].Message != "failed to store image" {
		t.Errorf("first event = %s %q", events[0].Level, events[0].Message)
	}
	if events[1].Level != model.EventLevelWarning || events[1].Message != "login attempt on blocked account" {
		t.Errorf("second event = %s %q", events[1].Level, events[1].Message)
	}
}

func TestCategoryInference(t *testing.T) {
	tests := []struct {
		name    string
		message string
		attrs   []any
		want    string
	}{
		{"explicit category wins", "something happened", []any{"category", "recipe"}, model.EventCategoryRecipe},
		{"login message", "admin login failed: unknown username", nil, model.EventCategoryAuth},
		{"token message", "token verification failed", nil, model.EventCategoryAuth},
		{"recipe message", "failed to delete recipe", nil, model.EventCategoryRecipe},
		{"user message", "failed to get user", nil, model.EventCategoryUser},
		{"fallback", "disk almost full", nil, model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, queries := newTestLogger(t)
			logger.Warn(tt.message, tt.attrs...)

			events, err := queries.ListRecentEvents(context.Background(), 1)
			if err != nil {
				t.Fatalf("ListRecentEvents: %v", err)
			}
			if len(events) != 1 {
				t.Fatalf("events = %d, want 1", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestMetadataIsValidJSON(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.Warn("failed to get user", "user_id", 7, "detail", "line1\nline2 \"quoted\"")

	events, err := queries.ListRecentEvents(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata %q is not valid JSON: %v", events[0].Metadata, err)
	}
	if meta["user_id"] != "7" {
		t.Errorf("user_id = %q, want %q", meta["user_id"], "7")
	}
	if meta["detail"] != "line1\nline2 \"quoted\"" {
		t.Errorf("detail = %q", meta["detail"])
	}
}

func TestWithAttrsKeepsMirroring(t *testing.T) {
	logger, queries := newTestLogger(t)

	logger.With("request_id", "abc").Warn("failed to list recipes")

	events, err := queries.ListRecentEvents(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryRecipe {
		t.Errorf("category = %q", events[0].Category)
	}
}
