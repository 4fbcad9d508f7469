// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API and the admin console routes.
package handler

// Console routes used by handlers for redirects.
const (
	RouteRoot       = "/"
	RouteLogin      = "/login"
	RouteHome       = "/home"
	RouteRecipeList = "/recipelist"
	RouteUserList   = "/userlist"
)

// RecipesPerPage is the page size for the console home listing.
const RecipesPerPage = 3

// MostViewedLimit caps the most-viewed recipes listing.
const MostViewedLimit = 10
