// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, password
  - LoginRequest: email, password
  - CastVoteRequest: poll_id, option_id
  - AmountRequest: amount (deposit and withdraw)

Poll creation and profile updates are multipart forms and have no JSON
request type.

# Response Types

  - AuthResponse: token, user
  - CastVoteResponse: message, vote_id, balance
  - BalanceResponse: message, balance
  - AuditResponse: balance, ledger_sum, consistent
  - ErrorResponse: error, message

# Domain Types

  - User: profile and polo_balance (password hash never leaves the db layer)
  - Poll: creator, description, required_votes, expires_at
  - PollOption: image_url and cached vote_count
  - PollWithOptions: poll plus options, total_votes and expired
  - Vote: one per user per poll
  - Transaction: signed ledger entry

# Expiry

A poll has no stored status. Whether it is active is decided at read time:

	expired := poll.IsExpired(time.Now())

Transaction types:

	TransactionCredit = "credit"
	TransactionDebit  = "debit"
*/
package models
