// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips unsafe HTML from converted markdown.
// It uses bluemonday's UGCPolicy which allows safe HTML tags for
// user-generated content while stripping scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts user-written recipe text (descriptions,
// ingredients, steps) to sanitized HTML for the console detail pages.
// On conversion failure the text is shown escaped rather than dropped.
func RenderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}

	return template.HTML(htmlSanitizer.Sanitize(buf.String()))
}
