// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/polloroid/auth"
)

func TestRequireAuth(t *testing.T) {
	const secret = "test-secret"

	valid, err := auth.IssueToken("user-1", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	expired, err := auth.IssueToken("user-1", "alice", secret, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	foreign, err := auth.IssueToken("user-1", "alice", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusForbidden},
		{"wrong secret", "Bearer " + foreign, http.StatusForbidden},
		{"garbage", "Bearer abc.def.ghi", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotID string
			handler := RequireAuth(secret)(func(w http.ResponseWriter, r *http.Request) {
				gotID = UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/user/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.expectedStatus, w.Code, w.Body.String())
			}
			if tc.expectedStatus == http.StatusOK && gotID != "user-1" {
				t.Errorf("Expected user-1 in context, got %q", gotID)
			}
		})
	}
}

func TestUserID_EmptyContext(t *testing.T) {
	if id := UserID(context.Background()); id != "" {
		t.Errorf("Expected empty user ID, got %q", id)
	}

	ctx := WithUser(context.Background(), "u1")
	if UserID(ctx) != "u1" {
		t.Error("WithUser did not store identity")
	}
}
