// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Polloroid API.

# Handler Types

Each handler is a struct holding what its routes need:

  - AccountHandler: registration and login
  - PollHandler: poll creation, the active feed, history, single poll
  - VotingHandler: casting votes
  - WalletHandler: deposits, withdrawals, balance audit
  - UserHandler: profile, transaction history, own polls

Handlers are created via constructor functions that accept *sql.DB. Those
that read limits or sign tokens also take Config, and those that accept
uploads take a media.Store:

	pollHandler := handlers.NewPollHandler(db, cfg, images)

# Writes Go Through the Ledger

Every change to a balance, a vote count or the transaction log is a call
into ledger.Ledger, which runs it as one database transaction. Handlers
only read directly from the database.

Ledger errors map onto status codes in one place (errors.go):

	ErrValidation, ErrInvalidAmount, ErrInsufficientFunds → 400
	ErrNotFound                                           → 404
	ErrAlreadyVoted, ErrUserExists, ErrPollExpired         → 409
	anything else                                         → 500 (logged)

# Poll Creation

POST /api/polls takes a multipart form:

	description     free text
	required_votes  Polo cost, at least 1
	duration        optional, hours until expiry
	images          2 to 8 image files

Images are stored first. If the ledger then rejects the poll (for example
on insufficient funds) the stored files are removed again.

# Expiry

Polls have no stored status. The feed shows polls whose expires_at is
unset or in the future. History shows the caller's polls that have
expired. Both compare against time.Now at request time.

# Authentication

Handlers behind middleware.RequireAuth read the caller with:

	userID := middleware.UserID(r.Context())
*/
package handlers
