package models

import "time"

// Transaction type constants
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CastVoteRequest struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
}

// Deposit and withdraw share this body
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CastVoteResponse struct {
	Message string `json:"message"`
	VoteID  string `json:"vote_id"`
	Balance int64  `json:"balance"`
}

type BalanceResponse struct {
	Message string `json:"message"`
	Balance int64  `json:"balance"`
}

type AuditResponse struct {
	Balance    int64 `json:"balance"`
	LedgerSum  int64 `json:"ledger_sum"`
	Consistent bool  `json:"consistent"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PoloBalance  int64     `json:"polo_balance"`
	Location     *string   `json:"location,omitempty"`
	Age          *int64    `json:"age,omitempty"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Poll struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Description   string     `json:"description"`
	RequiredVotes int64      `json:"required_votes"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`

	// Creator details, filled by feed queries
	Username     string  `json:"username,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// IsExpired reports whether the poll has an expiry and now is past it.
// Polls without an expiry never expire.
func (p Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

type PollOption struct {
	ID        string `json:"id"`
	PollID    string `json:"poll_id"`
	ImageURL  string `json:"image_url"`
	Position  int    `json:"position"`
	VoteCount int64  `json:"vote_count"`
}

// Poll fields are flattened next to options and the derived totals
type PollWithOptions struct {
	Poll
	Options    []PollOption `json:"options"`
	TotalVotes int64        `json:"total_votes"`
	Expired    bool         `json:"expired"`
}

// NewPollWithOptions derives the vote total and expiry flag from the options
// and the given time.
func NewPollWithOptions(poll Poll, options []PollOption, now time.Time) PollWithOptions {
	var total int64
	for _, opt := range options {
		total += opt.VoteCount
	}
	if options == nil {
		options = []PollOption{}
	}
	return PollWithOptions{
		Poll:       poll,
		Options:    options,
		TotalVotes: total,
		Expired:    poll.IsExpired(now),
	}
}

type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
