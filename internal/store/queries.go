// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/yumshare/yumshare-go/internal/model"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the query layer.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// =============================================================================
// USERS
// =============================================================================

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const createUser = `
INSERT INTO users (name, email, password_hash, is_blocked, created_at, updated_at)
VALUES (?, ?, ?, 0, ?, ?)
RETURNING id, name, email, password_hash, is_blocked, created_at, updated_at
`

// CreateUser inserts a new user record.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Name, arg.Email, arg.PasswordHash, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

const getUserByID = `
SELECT id, name, email, password_hash, is_blocked, created_at, updated_at
FROM users WHERE id = ?
`

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `
SELECT id, name, email, password_hash, is_blocked, created_at, updated_at
FROM users WHERE email = ?
`

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const listUsers = `
SELECT id, name, email, password_hash, is_blocked, created_at, updated_at
FROM users ORDER BY id
`

// ListUsers returns all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
			&u.IsBlocked, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const updateUserName = `
UPDATE users SET name = ?, updated_at = ? WHERE id = ?
RETURNING id, name, email, password_hash, is_blocked, created_at, updated_at
`

// UpdateUserName changes a user's display name.
func (q *Queries) UpdateUserName(ctx context.Context, id int64, name string, updatedAt time.Time) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserName, name, updatedAt, id))
}

const updateUserPassword = `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
`

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, updatedAt, id)
	return err
}

const updateUserBlocked = `
UPDATE users SET is_blocked = ?, updated_at = ? WHERE id = ?
`

// UpdateUserBlocked sets a user's blocked flag.
func (q *Queries) UpdateUserBlocked(ctx context.Context, id int64, blocked bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserBlocked, blocked, updatedAt, id)
	return err
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.IsBlocked, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// =============================================================================
// ADMINS
// =============================================================================

const createAdmin = `
INSERT INTO admins (username, password_hash) VALUES (?, ?)
RETURNING id, username, password_hash
`

// CreateAdmin inserts a new admin record.
func (q *Queries) CreateAdmin(ctx context.Context, username, passwordHash string) (model.Admin, error) {
	var a model.Admin
	err := q.db.QueryRowContext(ctx, createAdmin, username, passwordHash).
		Scan(&a.ID, &a.Username, &a.PasswordHash)
	return a, err
}

const getAdminByUsername = `
SELECT id, username, password_hash FROM admins WHERE username = ?
`

// GetAdminByUsername returns the admin with the given username, or sql.ErrNoRows.
func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := q.db.QueryRowContext(ctx, getAdminByUsername, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash)
	return a, err
}

// =============================================================================
// RECIPES
// =============================================================================

// CreateRecipeParams holds the fields for creating a recipe. CreatorID is
// written exactly once here and no update statement ever touches it.
type CreateRecipeParams struct {
	Title       string
	Ingredients string
	Steps       string
	CookingTime int64
	Difficulty  string
	Image       string
	Thumbnail   string
	CreatorID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const createRecipe = `
INSERT INTO recipes (title, ingredients, steps, cooking_time, difficulty,
                     image, thumbnail, view_count, creator_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
RETURNING id, title, ingredients, steps, cooking_time, difficulty,
          image, thumbnail, view_count, creator_id, created_at, updated_at
`

// CreateRecipe inserts a new recipe record.
func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (model.Recipe, error) {
	row := q.db.QueryRowContext(ctx, createRecipe,
		arg.Title, arg.Ingredients, arg.Steps, arg.CookingTime, arg.Difficulty,
		arg.Image, arg.Thumbnail, arg.CreatorID, arg.CreatedAt, arg.UpdatedAt)
	return scanRecipe(row)
}

const getRecipeByID = `
SELECT id, title, ingredients, steps, cooking_time, difficulty,
       image, thumbnail, view_count, creator_id, created_at, updated_at
FROM recipes WHERE id = ?
`

// GetRecipeByID returns the recipe with the given id, or sql.ErrNoRows.
func (q *Queries) GetRecipeByID(ctx context.Context, id int64) (model.Recipe, error) {
	return scanRecipe(q.db.QueryRowContext(ctx, getRecipeByID, id))
}

// RecipeWithCreator is a recipe joined with its creator's display name.
type RecipeWithCreator struct {
	model.Recipe
	CreatorName string
}

const recipeWithCreatorColumns = `
r.id, r.title, r.ingredients, r.steps, r.cooking_time, r.difficulty,
r.image, r.thumbnail, r.view_count, r.creator_id, r.created_at, r.updated_at,
u.name
`

const listRecipes = `
SELECT ` + recipeWithCreatorColumns + `
FROM recipes r JOIN users u ON u.id = r.creator_id
ORDER BY r.id
`

// ListRecipes returns all recipes with their creator names.
func (q *Queries) ListRecipes(ctx context.Context) ([]RecipeWithCreator, error) {
	return q.queryRecipesWithCreator(ctx, listRecipes)
}

const searchRecipesByTitle = `
SELECT ` + recipeWithCreatorColumns + `
FROM recipes r JOIN users u ON u.id = r.creator_id
WHERE r.title LIKE ? ESCAPE '\'
ORDER BY r.id
`

// SearchRecipesByTitle returns recipes whose title contains the given term,
// case-insensitively (SQLite LIKE is case-insensitive for ASCII).
func (q *Queries) SearchRecipesByTitle(ctx context.Context, term string) ([]RecipeWithCreator, error) {
	pattern := "%" + escapeLike(term) + "%"
	return q.queryRecipesWithCreator(ctx, searchRecipesByTitle, pattern)
}

const listRecipesByCreator = `
SELECT id, title, ingredients, steps, cooking_time, difficulty,
       image, thumbnail, view_count, creator_id, created_at, updated_at
FROM recipes WHERE creator_id = ? ORDER BY id
`

// ListRecipesByCreator returns all recipes owned by the given user.
func (q *Queries) ListRecipesByCreator(ctx context.Context, creatorID int64) ([]model.Recipe, error) {
	rows, err := q.db.QueryContext(ctx, listRecipesByCreator, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		if err := rows.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Steps,
			&r.CookingTime, &r.Difficulty, &r.Image, &r.Thumbnail,
			&r.ViewCount, &r.CreatorID, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const listRecipesPage = `
SELECT ` + recipeWithCreatorColumns + `
FROM recipes r JOIN users u ON u.id = r.creator_id
ORDER BY r.created_at DESC, r.id DESC
LIMIT ? OFFSET ?
`

// ListRecipesPage returns one page of recipes ordered newest first.
func (q *Queries) ListRecipesPage(ctx context.Context, limit, offset int64) ([]RecipeWithCreator, error) {
	return q.queryRecipesWithCreator(ctx, listRecipesPage, limit, offset)
}

const countRecipes = `SELECT COUNT(*) FROM recipes`

// CountRecipes returns the total number of recipes.
func (q *Queries) CountRecipes(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRecipes).Scan(&n)
	return n, err
}

const listMostViewedRecipes = `
SELECT ` + recipeWithCreatorColumns + `
FROM recipes r JOIN users u ON u.id = r.creator_id
ORDER BY r.view_count DESC, r.id
LIMIT ?
`

// ListMostViewedRecipes returns the top recipes by view count.
func (q *Queries) ListMostViewedRecipes(ctx context.Context, limit int64) ([]RecipeWithCreator, error) {
	return q.queryRecipesWithCreator(ctx, listMostViewedRecipes, limit)
}

// UpdateRecipeParams holds the updatable recipe fields. The creator is not
// part of this set: ownership is immutable once assigned.
type UpdateRecipeParams struct {
	ID          int64
	Title       string
	Ingredients string
	Steps       string
	CookingTime int64
	Difficulty  string
	Image       string
	Thumbnail   string
	UpdatedAt   time.Time
}

const updateRecipe = `
UPDATE recipes
SET title = ?, ingredients = ?, steps = ?, cooking_time = ?, difficulty = ?,
    image = ?, thumbnail = ?, updated_at = ?
WHERE id = ?
RETURNING id, title, ingredients, steps, cooking_time, difficulty,
          image, thumbnail, view_count, creator_id, created_at, updated_at
`

// UpdateRecipe replaces the updatable fields of a recipe.
func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) (model.Recipe, error) {
	row := q.db.QueryRowContext(ctx, updateRecipe,
		arg.Title, arg.Ingredients, arg.Steps, arg.CookingTime, arg.Difficulty,
		arg.Image, arg.Thumbnail, arg.UpdatedAt, arg.ID)
	return scanRecipe(row)
}

const incrementRecipeViewCount = `
UPDATE recipes SET view_count = view_count + 1 WHERE id = ?
RETURNING view_count
`

// IncrementRecipeViewCount adds one view to a recipe and returns the new count.
func (q *Queries) IncrementRecipeViewCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, incrementRecipeViewCount, id).Scan(&n)
	return n, err
}

const deleteRecipe = `DELETE FROM recipes WHERE id = ?`

// DeleteRecipe removes a recipe record.
func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteRecipe, id)
	return err
}

func (q *Queries) queryRecipesWithCreator(ctx context.Context, query string, args ...any) ([]RecipeWithCreator, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []RecipeWithCreator
	for rows.Next() {
		var r RecipeWithCreator
		if err := rows.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Steps,
			&r.CookingTime, &r.Difficulty, &r.Image, &r.Thumbnail,
			&r.ViewCount, &r.CreatorID, &r.CreatedAt, &r.UpdatedAt,
			&r.CreatorName); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func scanRecipe(row *sql.Row) (model.Recipe, error) {
	var r model.Recipe
	err := row.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Steps,
		&r.CookingTime, &r.Difficulty, &r.Image, &r.Thumbnail,
		&r.ViewCount, &r.CreatorID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// =============================================================================
// EVENTS
// =============================================================================

// CreateEventParams holds the fields for creating an event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `
INSERT INTO events (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)
`

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	return err
}

const listRecentEvents = `
SELECT id, level, category, message, metadata, created_at
FROM events ORDER BY id DESC LIMIT ?
`

// ListRecentEvents returns the most recent event log entries.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message,
			&e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
