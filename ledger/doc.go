// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the only writer of balances, vote counts, and transactions.

# Operations

	l := ledger.New(conn)

	user, err := l.Register(ctx, ledger.NewUser{...})     // +30 signup credit
	poll, err := l.CreatePoll(ctx, ledger.NewPoll{...})   // -RequiredVotes
	res, err := l.CastVote(ctx, pollID, optionID, userID) // +1 vote reward
	bal, err := l.Deposit(ctx, userID, amount)
	bal, err := l.Withdraw(ctx, userID, amount)
	audit, err := l.Audit(ctx, userID)

Each call is one database transaction. A failure at any step rolls back
every write made by that call.

# Balances

Balances change only through relative updates. Debits are conditional:

	UPDATE users SET polo_balance = polo_balance - $1
	WHERE id = $2 AND polo_balance >= $1

Zero affected rows means the user is missing (ErrNotFound) or short
(ErrInsufficientFunds). Concurrent debits against one user therefore never
drive the balance below zero.

Every balance change appends a Transaction row in the same transaction with
a signed amount, so the sum of a user's transactions equals their balance.
Audit reports both numbers.

# Votes

The votes table has UNIQUE (poll_id, user_id). CastVote inserts with
ON CONFLICT DO NOTHING and treats zero inserted rows as ErrAlreadyVoted.
The option counter and the reward are written only after the insert wins,
so N concurrent votes by one user produce exactly one vote, one increment,
and one credit.

Expired polls reject votes with ErrPollExpired. Creators may vote on their
own polls.

# Errors

Domain failures are sentinel errors, sometimes wrapped with detail:

	ErrInsufficientFunds, ErrAlreadyVoted, ErrNotFound, ErrInvalidAmount,
	ErrValidation, ErrPollExpired, ErrUserExists

Driver failures come back as *StoreError, which unwraps to the cause.
*/
package ledger
