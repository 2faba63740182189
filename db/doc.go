// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the store and creates its schema.

# Connecting

Open picks the driver from the configuration:

	conn, err := db.Open(cfg)

  - sqlite (modernc.org/sqlite): foreign keys on, 5s busy timeout,
    one open connection so write transactions queue instead of failing
  - postgres (github.com/lib/pq)

All queries use $N placeholders, which both drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identity, profile, polo_balance (never negative)
  - polls: creator, description, required_votes (creation cost), expires_at
  - poll_options: image locator and cached vote_count
  - votes: one row per (poll, user), enforced by UNIQUE (poll_id, user_id)
  - transactions: append-only ledger of signed amounts

# Relationships

	users 1──* polls 1──* poll_options
	polls 1──* votes *──1 users
	poll_options 1──* votes
	users 1──* transactions

# Constraint Errors

IsUniqueViolation recognizes unique-constraint failures from both drivers,
so callers can turn them into domain errors:

	if db.IsUniqueViolation(err) {
		return ErrUserExists
	}
*/
package db
