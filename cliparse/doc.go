// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in three layers, lowest precedence first:

 1. struct tag defaults (envDefault)
 2. environment variables (a .env file is loaded into the environment by main)
 3. CLI flags

# Config Fields

  - Port: Server listen port (default: 3001)
  - DatabaseURL: SQLite file URI or PostgreSQL connection string (default: file:polloroid.db)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JWTSecret: HMAC secret for bearer tokens (required)
  - TokenTTL: Bearer token lifetime (default: 24h)
  - UploadDir: Where poll and profile images are written (default: uploads)
  - MaxUploadMB: Per-file upload limit, 1-100 (default: 10)
  - AuthRatePerMinute: Login/register requests per minute per IP (default: 20, 0 disables)
  - LogLevel: slog level (default: INFO)

# CLI Flags and Environment Variables

	-p             PORT
	-d             DATABASE_URL
	-t             DATABASE_TYPE
	-jwt-secret    JWT_SECRET
	-token-ttl     TOKEN_TTL
	-uploads       UPLOAD_DIR
	-max-upload-mb MAX_UPLOAD_MB
	-auth-rate     AUTH_RATE_PER_MINUTE
	-log-level     LOG_LEVEL

# Validation

ParseFlags returns an error if JWT_SECRET is missing, the database type is
unknown, or a numeric setting is out of range.
*/
package cliparse
