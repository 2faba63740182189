// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"os"
	"testing"

	"github.com/danielhkuo/polloroid/media"
	"github.com/danielhkuo/polloroid/middleware"
)

// asUser attaches an authenticated identity, as RequireAuth would
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), userID))
}

// newImageStore returns a store backed by a temp dir and the dir itself
func newImageStore(t *testing.T) (*media.LocalStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := media.NewLocalStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("Failed to create image store: %v", err)
	}
	return store, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	return len(entries)
}
