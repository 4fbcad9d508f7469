// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the admin console templates.
package web

import "embed"

//go:embed all:templates
var Templates embed.FS
