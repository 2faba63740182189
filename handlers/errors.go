// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polloroid/ledger"
	"github.com/danielhkuo/polloroid/middleware"
)

// writeLedgerError maps ledger errors onto HTTP status codes. Anything
// unrecognised is logged and answered with 500.
func writeLedgerError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrInvalidAmount):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Insufficient Polo balance")
	case errors.Is(err, ledger.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
	case errors.Is(err, ledger.ErrUserExists):
		middleware.ErrorResponse(w, http.StatusConflict, "Username or email already taken")
	case errors.Is(err, ledger.ErrPollExpired):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll has expired")
	default:
		slog.Error("ledger operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
