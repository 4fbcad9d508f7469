// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yumshare/yumshare-go/internal/middleware"
	"github.com/yumshare/yumshare-go/internal/model"
	"github.com/yumshare/yumshare-go/internal/render"
	"github.com/yumshare/yumshare-go/internal/store"
)

// AdminHandler handles the admin console pages.
type AdminHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// Root redirects the console root to the login page.
func (h *AdminHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

// homePageData feeds the paginated home template.
type homePageData struct {
	Recipes    []store.RecipeWithCreator
	Pagination Pagination
}

// Home renders the paginated recipe overview, newest first.
func (h *AdminHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	total, err := h.queries.CountRecipes(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count recipes", "error", err)
		return
	}

	offset := int64(page-1) * RecipesPerPage
	recipes, err := h.queries.ListRecipesPage(r.Context(), RecipesPerPage, offset)
	if err != nil {
		logAndInternalError(w, "failed to list recipes", "error", err)
		return
	}

	h.render(w, r, "admin/home", "Home", homePageData{
		Recipes:    recipes,
		Pagination: BuildPagination(page, int(total), RecipesPerPage, RouteHome, r.URL.Query()),
	})
}

// MostViewed renders the top recipes by view count.
func (h *AdminHandler) MostViewed(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.queries.ListMostViewedRecipes(r.Context(), MostViewedLimit)
	if err != nil {
		logAndInternalError(w, "failed to list most viewed recipes", "error", err)
		return
	}

	h.render(w, r, "admin/mostviewed", "Most Viewed Recipes", recipes)
}

// RecipeList renders every recipe with its creator.
func (h *AdminHandler) RecipeList(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.queries.ListRecipes(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list recipes", "error", err)
		return
	}

	h.render(w, r, "admin/recipelist", "Recipes", recipes)
}

// UserList renders every registered user.
func (h *AdminHandler) UserList(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	h.render(w, r, "admin/userlist", "Users", users)
}

// ToggleBlock handles POST /userlist/{id}/toggleBlock. It flips the user's
// blocked flag and returns to the user list.
func (h *AdminHandler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get user", "error", err, "user_id", id)
		return
	}

	if err := h.queries.UpdateUserBlocked(r.Context(), user.ID, !user.IsBlocked, time.Now()); err != nil {
		logAndInternalError(w, "failed to toggle block status", "error", err, "user_id", id)
		return
	}

	slog.Info("user block status toggled", "user_id", user.ID, "blocked", !user.IsBlocked)
	http.Redirect(w, r, RouteUserList, http.StatusSeeOther)
}

// recipeDetailsData feeds the recipe details template. Ingredients and
// steps arrive as raw recipe text and are rendered as markdown in the view.
type recipeDetailsData struct {
	Recipe      model.Recipe
	CreatorName string
	ImageURL    string
}

// RecipeDetails renders one recipe in full.
func (h *AdminHandler) RecipeDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Recipe not found", http.StatusNotFound)
		return
	}

	recipe, err := h.queries.GetRecipeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Recipe not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get recipe", "error", err, "recipe_id", id)
		return
	}

	creator, err := h.queries.GetUserByID(r.Context(), recipe.CreatorID)
	if err != nil {
		logAndInternalError(w, "failed to get recipe creator", "error", err, "recipe_id", id)
		return
	}

	h.render(w, r, "admin/recipedetails", recipe.Title, recipeDetailsData{
		Recipe:      recipe,
		CreatorName: creator.Name,
		ImageURL:    imageURL(r, recipe.Image),
	})
}

// DeleteRecipe handles POST /deleterecipe/{id}. The row is removed; image
// files on disk are left as-is on this path.
func (h *AdminHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Recipe not found", http.StatusNotFound)
		return
	}

	if _, err := h.queries.GetRecipeByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Recipe not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get recipe", "error", err, "recipe_id", id)
		return
	}

	if err := h.queries.DeleteRecipe(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete recipe", "error", err, "recipe_id", id)
		return
	}

	slog.Info("recipe deleted from console", "recipe_id", id)
	flashSuccess(w, r, h.renderer, RouteRecipeList, "Recipe deleted")
}

// userProfileData feeds the user profile template.
type userProfileData struct {
	User    model.User
	Recipes []model.Recipe
}

// UserProfile renders one user and their recipes.
func (h *AdminHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get user", "error", err, "user_id", id)
		return
	}

	recipes, err := h.queries.ListRecipesByCreator(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, "failed to list user recipes", "error", err, "user_id", id)
		return
	}

	h.render(w, r, "admin/userprofile", user.Name, userProfileData{
		User:    user,
		Recipes: recipes,
	})
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:         title,
		Data:          data,
		AdminUsername: h.sessionManager.GetString(r.Context(), middleware.SessionKeyAdminUsername),
	})
	if err != nil {
		logAndInternalError(w, "failed to render page", "error", err, "template", name)
	}
}
