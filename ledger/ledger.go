// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/polloroid/db"
	"github.com/danielhkuo/polloroid/models"
)

const (
	StartingBalance = 30
	VoteReward      = 1
	MinOptions      = 2
	MaxOptions      = 8
	MaxAmount       = 1_000_000
)

// Ledger owns every write to balances, vote counts, and transactions.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

type NewPoll struct {
	CreatorID     string
	Description   string
	RequiredVotes int64
	ImageURLs     []string
	ExpiresAt     *time.Time
}

// VoteResult is the recorded vote and the voter's balance after the reward.
type VoteResult struct {
	Vote    models.Vote
	Balance int64
}

type Audit struct {
	Balance    int64
	LedgerSum  int64
	Consistent bool
}

// Register creates a user with the starting balance and its signup credit.
func (l *Ledger) Register(ctx context.Context, u NewUser) (models.User, error) {
	user := models.User{
		ID:          uuid.NewString(),
		Username:    u.Username,
		Email:       u.Email,
		PoloBalance: StartingBalance,
		CreatedAt:   l.now().UTC(),
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, storeErr("register", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, polo_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Username, user.Email, u.PasswordHash, user.PoloBalance, user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, storeErr("register", err)
	}

	if err := l.appendTransaction(ctx, tx, user.ID, StartingBalance, "Signup bonus"); err != nil {
		return models.User{}, storeErr("register", err)
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, storeErr("register", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// CreatePoll charges the creator RequiredVotes Polo and stores the poll with
// one zero-count option per image, in order.
func (l *Ledger) CreatePoll(ctx context.Context, p NewPoll) (models.PollWithOptions, error) {
	if err := validatePoll(p); err != nil {
		return models.PollWithOptions{}, err
	}

	now := l.now().UTC()
	poll := models.Poll{
		ID:            uuid.NewString(),
		UserID:        p.CreatorID,
		Description:   p.Description,
		RequiredVotes: p.RequiredVotes,
		CreatedAt:     now,
	}
	if p.ExpiresAt != nil {
		expires := p.ExpiresAt.UTC()
		poll.ExpiresAt = &expires
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, storeErr("create poll", err)
	}
	defer tx.Rollback()

	if err := debit(ctx, tx, p.CreatorID, p.RequiredVotes); err != nil {
		return models.PollWithOptions{}, wrapStore("create poll", err)
	}

	// Creator fields come from the row, not from the caller's token
	err = tx.QueryRowContext(ctx, `SELECT username, profile_image FROM users WHERE id = $1`, p.CreatorID).
		Scan(&poll.Username, &poll.ProfileImage)
	if err != nil {
		return models.PollWithOptions{}, storeErr("create poll", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, user_id, description, required_votes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.UserID, poll.Description, poll.RequiredVotes, poll.CreatedAt, nullTime(poll.ExpiresAt))
	if err != nil {
		return models.PollWithOptions{}, storeErr("create poll", err)
	}

	options := make([]models.PollOption, 0, len(p.ImageURLs))
	for i, url := range p.ImageURLs {
		opt := models.PollOption{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			ImageURL: url,
			Position: i,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, image_url, position, vote_count)
			VALUES ($1, $2, $3, $4, 0)
		`, opt.ID, opt.PollID, opt.ImageURL, opt.Position)
		if err != nil {
			return models.PollWithOptions{}, storeErr("create poll", err)
		}
		options = append(options, opt)
	}

	if err := l.appendTransaction(ctx, tx, p.CreatorID, -p.RequiredVotes, "Poll creation"); err != nil {
		return models.PollWithOptions{}, storeErr("create poll", err)
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, storeErr("create poll", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "user_id", p.CreatorID, "options", len(options), "cost", p.RequiredVotes)
	return models.NewPollWithOptions(poll, options, now), nil
}

func validatePoll(p NewPoll) error {
	if n := len(p.ImageURLs); n < MinOptions || n > MaxOptions {
		return fmt.Errorf("%w: poll needs %d-%d images, got %d", ErrValidation, MinOptions, MaxOptions, n)
	}
	for i, url := range p.ImageURLs {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("%w: image %d has no locator", ErrValidation, i)
		}
	}
	if p.RequiredVotes < 1 {
		return fmt.Errorf("%w: required_votes must be at least 1", ErrValidation)
	}
	return nil
}

// CastVote records voterID's single vote on pollID for optionID and pays
// the vote reward.
func (l *Ledger) CastVote(ctx context.Context, pollID, optionID, voterID string) (VoteResult, error) {
	now := l.now().UTC()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}
	defer tx.Rollback()

	var expiresAt sql.NullTime
	err = tx.QueryRowContext(ctx, `SELECT expires_at FROM polls WHERE id = $1`, pollID).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return VoteResult{}, fmt.Errorf("%w: poll %s", ErrNotFound, pollID)
	}
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}

	poll := models.Poll{ID: pollID}
	if expiresAt.Valid {
		poll.ExpiresAt = &expiresAt.Time
	}
	if poll.IsExpired(now) {
		return VoteResult{}, ErrPollExpired
	}

	var optionPollID string
	err = tx.QueryRowContext(ctx, `SELECT poll_id FROM poll_options WHERE id = $1`, optionID).Scan(&optionPollID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && optionPollID != pollID) {
		return VoteResult{}, fmt.Errorf("%w: option %s in poll %s", ErrNotFound, optionID, pollID)
	}
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}

	exists, err := userExists(ctx, tx, voterID)
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}
	if !exists {
		return VoteResult{}, fmt.Errorf("%w: user %s", ErrNotFound, voterID)
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    voterID,
		CreatedAt: now,
	}

	// The unique index decides who voted first
	res, err := tx.ExecContext(ctx, `
		INSERT INTO votes (id, poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (poll_id, user_id) DO NOTHING
	`, vote.ID, vote.PollID, vote.OptionID, vote.UserID, vote.CreatedAt)
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}
	if inserted == 0 {
		return VoteResult{}, ErrAlreadyVoted
	}

	_, err = tx.ExecContext(ctx, `UPDATE poll_options SET vote_count = vote_count + 1 WHERE id = $1`, optionID)
	if err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}

	balance, err := credit(ctx, tx, voterID, VoteReward)
	if err != nil {
		return VoteResult{}, wrapStore("cast vote", err)
	}

	if err := l.appendTransaction(ctx, tx, voterID, VoteReward, "Vote reward"); err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}

	if err := tx.Commit(); err != nil {
		return VoteResult{}, storeErr("cast vote", err)
	}

	slog.Info("vote cast", "poll_id", pollID, "option_id", optionID, "user_id", voterID)
	return VoteResult{Vote: vote, Balance: balance}, nil
}

// Deposit credits amount to userID and returns the new balance.
func (l *Ledger) Deposit(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("deposit", err)
	}
	defer tx.Rollback()

	balance, err := credit(ctx, tx, userID, amount)
	if err != nil {
		return 0, wrapStore("deposit", err)
	}

	if err := l.appendTransaction(ctx, tx, userID, amount, "Deposit"); err != nil {
		return 0, storeErr("deposit", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("deposit", err)
	}

	slog.Info("deposit", "user_id", userID, "amount", amount, "balance", balance)
	return balance, nil
}

// Withdraw debits amount from userID and returns the new balance. A balance
// below amount leaves everything unchanged.
func (l *Ledger) Withdraw(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr("withdraw", err)
	}
	defer tx.Rollback()

	if err := debit(ctx, tx, userID, amount); err != nil {
		return 0, wrapStore("withdraw", err)
	}

	balance, err := currentBalance(ctx, tx, userID)
	if err != nil {
		return 0, wrapStore("withdraw", err)
	}

	if err := l.appendTransaction(ctx, tx, userID, -amount, "Withdrawal"); err != nil {
		return 0, storeErr("withdraw", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("withdraw", err)
	}

	slog.Info("withdrawal", "user_id", userID, "amount", amount, "balance", balance)
	return balance, nil
}

func validateAmount(amount int64) error {
	if amount < 1 || amount > MaxAmount {
		return fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalidAmount, MaxAmount)
	}
	return nil
}

// Audit compares the stored balance with the sum of the user's transactions.
func (l *Ledger) Audit(ctx context.Context, userID string) (Audit, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Audit{}, storeErr("audit", err)
	}
	defer tx.Rollback()

	balance, err := currentBalance(ctx, tx, userID)
	if err != nil {
		return Audit{}, wrapStore("audit", err)
	}

	var sum int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return Audit{}, storeErr("audit", err)
	}

	if err := tx.Commit(); err != nil {
		return Audit{}, storeErr("audit", err)
	}

	return Audit{Balance: balance, LedgerSum: sum, Consistent: balance == sum}, nil
}

// debit subtracts amount only if the balance covers it.
func debit(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET polo_balance = polo_balance - $1
		WHERE id = $2 AND polo_balance >= $1
	`, amount, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	exists, err := userExists(ctx, tx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return ErrInsufficientFunds
}

// credit adds amount and returns the new balance.
func credit(ctx context.Context, tx *sql.Tx, userID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE users SET polo_balance = polo_balance + $1 WHERE id = $2`, amount, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return currentBalance(ctx, tx, userID)
}

func currentBalance(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx, `SELECT polo_balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return balance, err
}

func userExists(ctx context.Context, tx *sql.Tx, userID string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

// appendTransaction records a signed amount; positive amounts are credits.
func (l *Ledger) appendTransaction(ctx context.Context, tx *sql.Tx, userID string, amount int64, description string) error {
	kind := models.TransactionCredit
	if amount < 0 {
		kind = models.TransactionDebit
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), userID, amount, kind, description, l.now().UTC())
	return err
}

// wrapStore passes domain errors through and wraps driver failures.
func wrapStore(op string, err error) error {
	for _, domain := range []error{ErrNotFound, ErrInsufficientFunds} {
		if errors.Is(err, domain) {
			return err
		}
	}
	return storeErr(op, err)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
