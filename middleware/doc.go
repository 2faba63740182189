// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging logs one line per request with method, path, status, client IP
and duration. 5xx responses are logged at error level:

	mux.HandleFunc("GET /api/polls", middleware.WithLogging(handler))

# Authentication

RequireAuth checks the Authorization: Bearer <jwt> header. A missing token
gets 401 and an invalid or expired one gets 403. On success the user ID
(the token subject) is stored in the request context:

	protect := middleware.RequireAuth(cfg.JWTSecret)
	mux.HandleFunc("POST /api/votes", middleware.WithLogging(protect(h.CastVote)))

	userID := middleware.UserID(r.Context())

# Rate Limiting

RateLimiter keeps a token bucket per client IP (golang.org/x/time/rate).
Idle buckets are dropped after ten minutes. Over-limit requests get 429:

	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute)
	mux.HandleFunc("POST /api/login", middleware.WithLogging(limiter.Wrap(h.Login)))

# CORS

CORS reflects the request origin and answers preflight requests directly.
It wraps the whole mux in main.

# Response Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
	err := middleware.ParseJSONBody(r, &req)

Error bodies look like:

	{"error": "Bad Request", "message": "Invalid JSON"}

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
