// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/polloroid/ledger"
	"github.com/danielhkuo/polloroid/models"
	"github.com/danielhkuo/polloroid/testutil"
)

func TestGetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := newImageStore(t)
	handler := NewUserHandler(db, cfg, store)

	userID := testutil.CreateTestUser(t, db, "alice", 30)

	req := asUser(testutil.MakeRequest("GET", "/api/user/profile", nil, nil), userID)
	w := httptest.NewRecorder()
	handler.GetProfile(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var user models.User
	testutil.AssertJSON(t, w, &user)
	if user.ID != userID || user.Username != "alice" || user.PoloBalance != 30 {
		t.Errorf("Unexpected profile: %+v", user)
	}
	if user.Age != nil || user.Location != nil || user.ProfileImage != nil {
		t.Errorf("Expected empty optional fields, got %+v", user)
	}

	req = asUser(testutil.MakeRequest("GET", "/api/user/profile", nil, nil), "ghost")
	w = httptest.NewRecorder()
	handler.GetProfile(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, dir := newImageStore(t)
	handler := NewUserHandler(db, cfg, store)

	userID := testutil.CreateTestUser(t, db, "alice", 30)
	testutil.CreateTestUser(t, db, "bob", 30)

	update := func(fields map[string]string, files []testutil.FormFile) *httptest.ResponseRecorder {
		req := testutil.MakeMultipartRequest(t, "PUT", "/api/user/profile", fields, files, nil)
		w := httptest.NewRecorder()
		handler.UpdateProfile(w, asUser(req, userID))
		return w
	}

	w := update(map[string]string{"location": "Lisbon", "age": "29"}, []testutil.FormFile{
		testutil.PNGFile("profile_image", "me.png"),
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var user models.User
	testutil.AssertJSON(t, w, &user)
	if user.Location == nil || *user.Location != "Lisbon" {
		t.Errorf("Expected location Lisbon, got %v", user.Location)
	}
	if user.Age == nil || *user.Age != 29 {
		t.Errorf("Expected age 29, got %v", user.Age)
	}
	if user.ProfileImage == nil || !strings.HasPrefix(*user.ProfileImage, "/uploads/") {
		t.Fatalf("Expected profile image locator, got %v", user.ProfileImage)
	}
	if user.Username != "alice" {
		t.Errorf("Username should be unchanged, got %s", user.Username)
	}

	// Replacing the image removes the old file
	w = update(nil, []testutil.FormFile{testutil.PNGFile("profile_image", "new.png")})
	testutil.AssertStatus(t, w, http.StatusOK)
	if n := countFiles(t, dir); n != 1 {
		t.Errorf("Expected only the new profile image on disk, found %d files", n)
	}

	w = update(map[string]string{"username": "bob"}, nil)
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = update(map[string]string{"email": "no-at-sign"}, nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = update(map[string]string{"age": "old"}, nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = update(nil, []testutil.FormFile{{Field: "profile_image", Filename: "x.png", Content: []byte("text")}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = update(map[string]string{"username": "alicia"}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	if balance := testutil.GetBalance(t, db, userID); balance != 30 {
		t.Errorf("Profile updates must not touch the balance, got %d", balance)
	}
	if n := countFiles(t, dir); n != 1 {
		t.Errorf("Expected failed uploads to leave no files, found %d", n)
	}
}

func TestGetTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := newImageStore(t)
	handler := NewUserHandler(db, cfg, store)

	userID := testutil.CreateTestUser(t, db, "alice", 30)
	l := ledger.New(db)
	if _, err := l.Deposit(context.Background(), userID, 10); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if _, err := l.Withdraw(context.Background(), userID, 4); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	req := asUser(testutil.MakeRequest("GET", "/api/user/transactions", nil, nil), userID)
	w := httptest.NewRecorder()
	handler.GetTransactions(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var txns []models.Transaction
	testutil.AssertJSON(t, w, &txns)
	if len(txns) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(txns))
	}

	var sum int64
	for _, tx := range txns {
		sum += tx.Amount
		if tx.Amount < 0 && tx.Type != models.TransactionDebit {
			t.Errorf("Negative amount should be a debit: %+v", tx)
		}
	}
	if sum != 36 {
		t.Errorf("Expected transactions to sum to 36, got %d", sum)
	}
}

func TestGetUserPolls(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := newImageStore(t)
	handler := NewUserHandler(db, cfg, store)

	alice := testutil.CreateTestUser(t, db, "alice", 30)
	bob := testutil.CreateTestUser(t, db, "bob", 30)
	past := time.Now().Add(-time.Hour)
	testutil.CreateTestPoll(t, db, alice, 2, nil)
	testutil.CreateTestPoll(t, db, alice, 3, &past)
	testutil.CreateTestPoll(t, db, bob, 2, nil)

	req := asUser(testutil.MakeRequest("GET", "/api/user/polls", nil, nil), alice)
	w := httptest.NewRecorder()
	handler.GetPolls(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var polls []models.PollWithOptions
	testutil.AssertJSON(t, w, &polls)
	if len(polls) != 2 {
		t.Fatalf("Expected alice's 2 polls, got %d", len(polls))
	}
	for _, p := range polls {
		if p.UserID != alice {
			t.Errorf("Unexpected poll owner %s", p.UserID)
		}
	}
}
