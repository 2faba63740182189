// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Polloroid API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, images)

CORS is applied by the caller around the whole mux.

# Endpoints

Health:

	GET /health

Accounts (public, rate limited per client IP):

	POST /api/register - Create account, returns token
	POST /api/login    - Email and password, returns token

Polls:

	GET  /api/polls         - Active feed (public)
	GET  /api/polls/{id}    - Single poll with options (public)
	GET  /api/polls/history - Caller's expired polls
	POST /api/polls         - Create poll (multipart, costs required_votes)

Voting:

	POST /api/votes - Vote on an option, rewards 1 Polo

User:

	GET /api/user/profile      - Caller's profile
	PUT /api/user/profile      - Update profile (multipart)
	GET /api/user/transactions - Transaction log, newest first
	GET /api/user/polls        - Caller's polls with vote totals
	GET /api/user/balance      - Balance and ledger reconciliation

Wallet:

	POST /api/transaction/deposit
	POST /api/transaction/withdraw

All routes except health and public reads require:

	Authorization: Bearer <token>

# Middleware

Every API route is wrapped with middleware.WithLogging. Protected routes
also pass through middleware.RequireAuth, which puts the caller's ID in
the request context.
*/
package router
