// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/polloroid/ledger"
	"github.com/danielhkuo/polloroid/middleware"
	"github.com/danielhkuo/polloroid/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
}

func NewVotingHandler(db *sql.DB) *VotingHandler {
	return &VotingHandler{ledger: ledger.New(db)}
}

// CastVote handles POST /api/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PollID == "" || req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id and option_id are required")
		return
	}

	res, err := h.ledger.CastVote(r.Context(), req.PollID, req.OptionID, middleware.UserID(r.Context()))
	if err != nil {
		writeLedgerError(w, "cast vote", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		Message: "Vote recorded",
		VoteID:  res.Vote.ID,
		Balance: res.Balance,
	})
}
