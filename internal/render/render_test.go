// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yumshare/yumshare-go/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewParsesAllConsolePages(t *testing.T) {
	r := newTestRenderer(t)

	pages := []string{
		"auth/login",
		"admin/home",
		"admin/mostviewed",
		"admin/recipelist",
		"admin/userlist",
		"admin/recipedetails",
		"admin/userprofile",
	}
	for _, name := range pages {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %s not parsed", name)
		}
	}
}

func TestRenderLoginPage(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()

	err := r.Render(rec, req, "auth/login", TemplateData{
		Title: "Admin Login",
		Data:  struct{ Message string }{Message: "Incorrect password."},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, fragment := range []string{
		"<title>Admin Login",
		"Incorrect password.",
		`name="username"`,
		strconv.Itoa(time.Now().Year()),
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("body missing %q", fragment)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := r.Render(rec, req, "admin/nonexistent", TemplateData{}); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
	if rec.Body.Len() != 0 {
		t.Error("response body written despite the error")
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := newTestRenderer(t)
	funcs := r.templateFuncs()

	when := time.Date(2026, time.March, 7, 15, 4, 0, 0, time.UTC)
	if got := funcs["formatDate"].(func(time.Time) string)(when); got != "Mar 7, 2026" {
		t.Errorf("formatDate = %q", got)
	}
	if got := funcs["formatDateTime"].(func(time.Time) string)(when); got != "Mar 7, 2026 3:04 PM" {
		t.Errorf("formatDateTime = %q", got)
	}

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long recipe title", 6); got != "a very..." {
		t.Errorf("truncate = %q", got)
	}

	if got := funcs["add"].(func(int, int) int)(2, 3); got != 5 {
		t.Errorf("add = %d", got)
	}
	if got := funcs["sub"].(func(int, int) int)(5, 3); got != 2 {
		t.Errorf("sub = %d", got)
	}
	if got := funcs["seq"].(func(int, int) []int)(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq = %v", got)
	}
}
