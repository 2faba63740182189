// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/polloroid/auth"
)

type contextKey int

const userIDKey contextKey = iota

// RequireAuth returns a wrapper that admits only requests carrying a valid
// bearer token. A missing token is 401, an invalid one 403.
func RequireAuth(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Authentication token required")
				return
			}

			claims, err := auth.ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				slog.Debug("rejected token", "error", err)
				ErrorResponse(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			next(w, r.WithContext(WithUser(r.Context(), claims.Subject)))
		}
	}
}

// UserID returns the authenticated user ID set by RequireAuth
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUser stores an authenticated user ID in ctx
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
