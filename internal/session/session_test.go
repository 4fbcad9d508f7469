// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumshare/yumshare-go/internal/testutil"
)

func TestNewCookieSettings(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, false)
	assert.Equal(t, 24*time.Hour, sm.Lifetime)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.True(t, sm.Cookie.Secure, "production cookies must be Secure")

	sm = New(db, true)
	assert.False(t, sm.Cookie.Secure, "development cookies must work over plain HTTP")
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)

	mux := http.NewServeMux()
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), "admin_id", int64(7))
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		if sm.GetInt64(r.Context(), "admin_id") == 7 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(sm.LoadAndSave(mux))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(srv.URL + "/put")
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEmpty(t, resp.Cookies(), "put request must set a session cookie")

	resp, err = client.Get(srv.URL + "/get")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "session value lost between requests")
}
