// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/polloroid/models"
)

const userColumns = `id, username, email, polo_balance, location, age, profile_image, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (models.User, error) {
	var (
		u            models.User
		location     sql.NullString
		age          sql.NullInt64
		profileImage sql.NullString
	)
	dest := append([]any{&u.ID, &u.Username, &u.Email, &u.PoloBalance, &location, &age, &profileImage, &u.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.User{}, err
	}
	if location.Valid {
		u.Location = &location.String
	}
	if age.Valid {
		u.Age = &age.Int64
	}
	if profileImage.Valid {
		u.ProfileImage = &profileImage.String
	}
	return u, nil
}

// getUser returns sql.ErrNoRows when the user does not exist
func getUser(ctx context.Context, db *sql.DB, userID string) (models.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// pollFilter narrows a poll listing by creator and expiry
type pollFilter struct {
	pollID    string
	creatorID string
	expired   *bool
}

func boolPtr(v bool) *bool { return &v }

// listPolls returns polls newest first with their options. Expiry is
// evaluated against now in Go, not in SQL.
func listPolls(ctx context.Context, db *sql.DB, f pollFilter, now time.Time) ([]models.PollWithOptions, error) {
	polls, err := queryPolls(ctx, db, f)
	if err != nil {
		return nil, err
	}

	result := make([]models.PollWithOptions, 0, len(polls))
	for _, p := range polls {
		if f.expired != nil && p.IsExpired(now) != *f.expired {
			continue
		}
		options, err := queryOptions(ctx, db, p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.NewPollWithOptions(p, options, now))
	}
	return result, nil
}

// queryPolls reads every matching row and closes the cursor before returning,
// so callers may issue further queries on a single-connection pool.
func queryPolls(ctx context.Context, db *sql.DB, f pollFilter) ([]models.Poll, error) {
	query := `
		SELECT p.id, p.user_id, p.description, p.required_votes, p.created_at, p.expires_at,
		       u.username, u.profile_image
		FROM polls p
		JOIN users u ON u.id = p.user_id
		WHERE 1 = 1`
	var args []any
	if f.pollID != "" {
		args = append(args, f.pollID)
		query += fmt.Sprintf(" AND p.id = $%d", len(args))
	}
	if f.creatorID != "" {
		args = append(args, f.creatorID)
		query += fmt.Sprintf(" AND p.user_id = $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		var (
			p            models.Poll
			expiresAt    sql.NullTime
			profileImage sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Description, &p.RequiredVotes, &p.CreatedAt, &expiresAt,
			&p.Username, &profileImage); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			p.ExpiresAt = &expiresAt.Time
		}
		if profileImage.Valid {
			p.ProfileImage = &profileImage.String
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func queryOptions(ctx context.Context, db *sql.DB, pollID string) ([]models.PollOption, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, poll_id, image_url, position, vote_count
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.PollID, &o.ImageURL, &o.Position, &o.VoteCount); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
