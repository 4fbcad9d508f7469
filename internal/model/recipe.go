// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Recipe difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties contains all valid difficulty levels.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Recipe represents a recipe owned by exactly one user. The owner identity
// (CreatorID) is set at creation and never changes afterwards.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Ingredients string    `json:"ingredients"`
	Steps       string    `json:"steps"`
	CookingTime int64     `json:"cooking_time"`
	Difficulty  string    `json:"difficulty"`
	Image       string    `json:"image"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	ViewCount   int64     `json:"view_count"`
	CreatorID   int64     `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
