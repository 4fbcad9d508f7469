// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/yumshare/yumshare-go/internal/util"
)

// Uploads returns a handler serving files from the upload directory under
// /uploads/{filename}. Requests resolving outside the directory are 404s.
func Uploads(uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := util.SanitizeFilename(chi.URLParam(r, "filename"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(uploadDir, name)
		if err := util.ValidatePathWithinBase(uploadDir, path); err != nil {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, path)
	}
}
