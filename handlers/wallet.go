// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/danielhkuo/polloroid/ledger"
	"github.com/danielhkuo/polloroid/middleware"
	"github.com/danielhkuo/polloroid/models"
)

type WalletHandler struct {
	ledger *ledger.Ledger
}

func NewWalletHandler(db *sql.DB) *WalletHandler {
	return &WalletHandler{ledger: ledger.New(db)}
}

// Deposit handles POST /api/transaction/deposit
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "deposit", "Deposit successful", h.ledger.Deposit)
}

// Withdraw handles POST /api/transaction/withdraw
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "withdraw", "Withdrawal successful", h.ledger.Withdraw)
}

func (h *WalletHandler) move(w http.ResponseWriter, r *http.Request, op, message string,
	apply func(ctx context.Context, userID string, amount int64) (int64, error)) {
	var req models.AmountRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	balance, err := apply(r.Context(), middleware.UserID(r.Context()), req.Amount)
	if err != nil {
		writeLedgerError(w, op, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BalanceResponse{
		Message: message,
		Balance: balance,
	})
}

// Balance handles GET /api/user/balance: stored balance against the ledger sum
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	audit, err := h.ledger.Audit(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeLedgerError(w, "audit", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuditResponse{
		Balance:    audit.Balance,
		LedgerSum:  audit.LedgerSum,
		Consistent: audit.Consistent,
	})
}
