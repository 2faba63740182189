// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Polloroid API server.

Polloroid is a photo polling service. Users spend Polo to post polls of
two to eight images and earn Polo by voting on other polls. Every balance
change is recorded in a per-user transaction log.

# Starting the Server

With no configuration the server uses a local SQLite file:

	JWT_SECRET=change-me go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." --jwt-secret change-me

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): Bearer token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3001)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:polloroid.db)
  - TOKEN_TTL (--token-ttl): Token lifetime (default: 24h)
  - UPLOAD_DIR (--uploads): Image directory (default: uploads)
  - MAX_UPLOAD_MB (--max-upload-mb): Per-file limit (default: 10)
  - AUTH_RATE_PER_MINUTE (--auth-rate): Login/register rate per IP (default: 20)
  - LOG_LEVEL (--log-level): debug, info, warn or error

# Architecture

  - ledger: Atomic balance operations (poll creation, votes, deposits, withdrawals)
  - handlers: HTTP request handlers (accounts, polls, voting, wallet, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer auth, rate limiting, JSON helpers
  - media: Image upload storage
  - models: Request/response and row types
  - auth: Password hashing, tokens, input validation
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
