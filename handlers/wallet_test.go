// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/polloroid/models"
	"github.com/danielhkuo/polloroid/testutil"
)

func TestDepositAndWithdraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewWalletHandler(db)

	userID := testutil.CreateTestUser(t, db, "alice", 5)

	tests := []struct {
		name            string
		handle          func(http.ResponseWriter, *http.Request)
		amount          int64
		expectedStatus  int
		expectedBalance int64
	}{
		{"withdraw more than balance", handler.Withdraw, 10, http.StatusBadRequest, 5},
		{"deposit", handler.Deposit, 20, http.StatusOK, 25},
		{"withdraw", handler.Withdraw, 25, http.StatusOK, 0},
		{"deposit zero", handler.Deposit, 0, http.StatusBadRequest, 0},
		{"withdraw negative", handler.Withdraw, -5, http.StatusBadRequest, 0},
		{"deposit above cap", handler.Deposit, 1_000_001, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/transaction", models.AmountRequest{Amount: tt.amount}, nil)
			w := httptest.NewRecorder()

			tt.handle(w, asUser(req, userID))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.BalanceResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Balance != tt.expectedBalance {
					t.Errorf("Expected response balance %d, got %d", tt.expectedBalance, resp.Balance)
				}
			}
			if balance := testutil.GetBalance(t, db, userID); balance != tt.expectedBalance {
				t.Errorf("Expected stored balance %d, got %d", tt.expectedBalance, balance)
			}
		})
	}

	// Only the signup credit, one deposit and one withdrawal
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID); n != 3 {
		t.Errorf("Expected 3 transactions, got %d", n)
	}
}

func TestBalanceAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewWalletHandler(db)

	userID := testutil.CreateTestUser(t, db, "alice", 30)

	req := asUser(testutil.MakeRequest("GET", "/api/user/balance", nil, nil), userID)
	w := httptest.NewRecorder()
	handler.Balance(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AuditResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Balance != 30 || resp.LedgerSum != 30 || !resp.Consistent {
		t.Errorf("Expected consistent balance of 30, got %+v", resp)
	}

	// A balance edited outside the ledger shows up as inconsistent
	if _, err := db.Exec(`UPDATE users SET polo_balance = 99 WHERE id = $1`, userID); err != nil {
		t.Fatalf("Failed to tamper balance: %v", err)
	}
	w = httptest.NewRecorder()
	handler.Balance(w, req)

	resp = models.AuditResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Consistent {
		t.Errorf("Expected inconsistency to be reported, got %+v", resp)
	}

	req = asUser(testutil.MakeRequest("GET", "/api/user/balance", nil, nil), "ghost")
	w = httptest.NewRecorder()
	handler.Balance(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
