// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yumshare/yumshare-go/internal/middleware"
	"github.com/yumshare/yumshare-go/internal/model"
	"github.com/yumshare/yumshare-go/internal/service"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/validate"
)

// multipartMemoryLimit is how much of a multipart body is held in memory
// before spilling to disk. Uploads themselves are capped separately.
const multipartMemoryLimit = 4 * 1024 * 1024

// RecipeAPIHandler handles the authenticated recipe CRUD endpoints.
type RecipeAPIHandler struct {
	queries *store.Queries
	media   *service.MediaService
}

// NewRecipeAPIHandler creates a new RecipeAPIHandler.
func NewRecipeAPIHandler(db *sql.DB, media *service.MediaService) *RecipeAPIHandler {
	return &RecipeAPIHandler{
		queries: store.New(db),
		media:   media,
	}
}

// List handles GET /api/recipe/recipelist.
func (h *RecipeAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.queries.ListRecipes(r.Context())
	if err != nil {
		writeServerError(w, "failed to list recipes", "error", err)
		return
	}

	if len(recipes) == 0 {
		writeAPIError(w, http.StatusNotFound, "No recipes found")
		return
	}

	writeAPISuccess(w, http.StatusOK, map[string]any{
		"recipes": formatRecipeList(r, recipes),
	})
}

// Search handles GET /api/recipe/search?search=term. Title matching is a
// case-insensitive substring match.
func (h *RecipeAPIHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")
	if term == "" {
		writeAPIError(w, http.StatusBadRequest, "Search term is required")
		return
	}

	recipes, err := h.queries.SearchRecipesByTitle(r.Context(), term)
	if err != nil {
		writeServerError(w, "failed to search recipes", "error", err, "term", term)
		return
	}

	if len(recipes) == 0 {
		writeAPIError(w, http.StatusNotFound, "No recipes found for the given search term")
		return
	}

	writeAPISuccess(w, http.StatusOK, map[string]any{
		"recipes": formatRecipeList(r, recipes),
	})
}

// Add handles POST /api/recipe/add (multipart). The token holder becomes
// the recipe's owner.
func (h *RecipeAPIHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeAPIError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	title := r.FormValue("title")
	ingredients := r.FormValue("ingredients")
	steps := r.FormValue("steps")
	cookingTimeRaw := r.FormValue("cookingTime")
	difficulty := r.FormValue("difficulty")

	cookingTime, ctErr := strconv.ParseInt(cookingTimeRaw, 10, 64)

	if msg := validate.First(
		validate.NonEmpty(title, "Title is required"),
		validate.NonEmpty(ingredients, "Ingredients are required"),
		validate.NonEmpty(steps, "Steps are required"),
		func() string {
			if ctErr != nil {
				return "Cooking time must be a positive number"
			}
			return ""
		},
		validate.Positive(cookingTime, "Cooking time must be a positive number"),
		validate.OneOf(difficulty, model.Difficulties, "Invalid difficulty level"),
	); msg != "" {
		writeAPIError(w, http.StatusBadRequest, msg)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "Image is required")
		return
	}
	defer file.Close()

	stored, ok := h.storeImage(w, file, header)
	if !ok {
		return
	}

	now := time.Now()
	recipe, err := h.queries.CreateRecipe(r.Context(), store.CreateRecipeParams{
		Title:       title,
		Ingredients: ingredients,
		Steps:       steps,
		CookingTime: cookingTime,
		Difficulty:  difficulty,
		Image:       stored.Image,
		Thumbnail:   stored.Thumbnail,
		CreatorID:   claims.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.media.Delete(stored.Image, stored.Thumbnail)
		writeServerError(w, "failed to create recipe", "error", err)
		return
	}

	slog.Info("recipe added", "recipe_id", recipe.ID, "user_id", claims.UserID)
	writeAPISuccess(w, http.StatusCreated, map[string]any{
		"message": "Recipe added successfully",
	})
}

// Edit handles PUT /api/recipe/edit/{id}. Absent fields keep their current
// values, but a field sent empty is rejected; only the owner may edit. A
// replacement image supersedes the old files, which are removed best-effort.
func (h *RecipeAPIHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeAPIError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	// Fields are optional, but a field that is present must be valid: an
	// explicitly empty title is a 400, not a keep-current-value.
	var checks []validate.Check
	if r.Form.Has("title") {
		checks = append(checks, validate.NonEmpty(r.FormValue("title"), "Title cannot be empty"))
	}
	if r.Form.Has("ingredients") {
		checks = append(checks, validate.NonEmpty(r.FormValue("ingredients"), "Ingredients cannot be empty"))
	}
	if r.Form.Has("steps") {
		checks = append(checks, validate.NonEmpty(r.FormValue("steps"), "Steps cannot be empty"))
	}
	var cookingTime int64
	if r.Form.Has("cookingTime") {
		n, err := strconv.ParseInt(r.FormValue("cookingTime"), 10, 64)
		if err != nil {
			n = 0
		}
		cookingTime = n
		checks = append(checks, validate.Positive(n, "Cooking time must be a positive number"))
	}
	if r.Form.Has("difficulty") {
		checks = append(checks, validate.OneOf(r.FormValue("difficulty"), model.Difficulties, "Invalid difficulty level"))
	}
	if msg := validate.First(checks...); msg != "" {
		writeAPIError(w, http.StatusBadRequest, msg)
		return
	}

	recipe, err := h.queries.GetRecipeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeServerError(w, "failed to get recipe", "error", err, "recipe_id", id)
		return
	}

	if recipe.CreatorID != claims.UserID {
		writeAPIError(w, http.StatusForbidden, "You are not authorized to edit this recipe")
		return
	}

	arg := store.UpdateRecipeParams{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Ingredients: recipe.Ingredients,
		Steps:       recipe.Steps,
		CookingTime: recipe.CookingTime,
		Difficulty:  recipe.Difficulty,
		Image:       recipe.Image,
		Thumbnail:   recipe.Thumbnail,
		UpdatedAt:   time.Now(),
	}

	if r.Form.Has("title") {
		arg.Title = r.FormValue("title")
	}
	if r.Form.Has("ingredients") {
		arg.Ingredients = r.FormValue("ingredients")
	}
	if r.Form.Has("steps") {
		arg.Steps = r.FormValue("steps")
	}
	if r.Form.Has("cookingTime") {
		arg.CookingTime = cookingTime
	}
	if r.Form.Has("difficulty") {
		arg.Difficulty = r.FormValue("difficulty")
	}

	var oldImage, oldThumbnail string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		stored, ok := h.storeImage(w, file, header)
		if !ok {
			return
		}
		oldImage, oldThumbnail = recipe.Image, recipe.Thumbnail
		arg.Image = stored.Image
		arg.Thumbnail = stored.Thumbnail
	}

	updated, err := h.queries.UpdateRecipe(r.Context(), arg)
	if err != nil {
		writeServerError(w, "failed to update recipe", "error", err, "recipe_id", id)
		return
	}

	if oldImage != "" || oldThumbnail != "" {
		h.media.Delete(oldImage, oldThumbnail)
	}

	slog.Info("recipe updated", "recipe_id", updated.ID, "user_id", claims.UserID)
	writeAPISuccess(w, http.StatusOK, map[string]any{
		"message": "Recipe updated successfully",
		"data":    updated,
	})
}

// Details handles GET /api/recipe/details/{id}. Every successful fetch
// counts as exactly one view.
func (h *RecipeAPIHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := h.queries.GetRecipeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeServerError(w, "failed to get recipe", "error", err, "recipe_id", id)
		return
	}

	creator, err := h.queries.GetUserByID(r.Context(), recipe.CreatorID)
	if err != nil {
		writeServerError(w, "failed to get recipe creator", "error", err, "recipe_id", id)
		return
	}

	if _, err := h.queries.IncrementRecipeViewCount(r.Context(), recipe.ID); err != nil {
		writeServerError(w, "failed to increment view count", "error", err, "recipe_id", id)
		return
	}

	writeAPISuccess(w, http.StatusOK, map[string]any{
		"recipe": map[string]any{
			"title":       recipe.Title,
			"image":       imageURL(r, recipe.Image),
			"ingredients": recipe.Ingredients,
			"steps":       recipe.Steps,
			"cookingTime": recipe.CookingTime,
			"difficulty":  recipe.Difficulty,
			"creator":     map[string]any{"name": creator.Name},
		},
	})
}

// Delete handles DELETE /api/recipe/delete/{id}. Only the owner may delete.
// Image files go first, best-effort, then the row.
func (h *RecipeAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := h.queries.GetRecipeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeAPIError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeServerError(w, "failed to get recipe", "error", err, "recipe_id", id)
		return
	}

	if recipe.CreatorID != claims.UserID {
		writeAPIError(w, http.StatusForbidden, "You are not authorized to delete this recipe")
		return
	}

	h.media.Delete(recipe.Image, recipe.Thumbnail)

	if err := h.queries.DeleteRecipe(r.Context(), recipe.ID); err != nil {
		writeServerError(w, "failed to delete recipe", "error", err, "recipe_id", id)
		return
	}

	slog.Info("recipe deleted", "recipe_id", recipe.ID, "user_id", claims.UserID)
	writeAPISuccess(w, http.StatusOK, map[string]any{
		"message": "Recipe deleted successfully",
	})
}

// storeImage validates and stores an uploaded photo, writing the error
// response itself on failure.
func (h *RecipeAPIHandler) storeImage(w http.ResponseWriter, file multipart.File, header *multipart.FileHeader) (*service.StoredImage, bool) {
	stored, err := h.media.Save(file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			writeAPIError(w, http.StatusBadRequest, "Image must be smaller than 2 MB")
		case errors.Is(err, service.ErrUnsupportedImage):
			writeAPIError(w, http.StatusBadRequest, "Images only!")
		default:
			writeServerError(w, "failed to store image", "error", err)
		}
		return nil, false
	}
	return stored, true
}

// formatRecipeList builds the {id,title,creator,imageUrl} list shape shared
// by the list and search endpoints.
func formatRecipeList(r *http.Request, recipes []store.RecipeWithCreator) []map[string]any {
	items := make([]map[string]any, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, map[string]any{
			"id":       recipe.ID,
			"title":    recipe.Title,
			"creator":  recipe.CreatorName,
			"imageUrl": imageURL(r, recipe.Image),
		})
	}
	return items
}
