// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/polloroid/auth"
	"github.com/danielhkuo/polloroid/models"
	"github.com/danielhkuo/polloroid/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	req := testutil.MakeRequest("POST", "/api/register", models.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	}, nil)
	w := httptest.NewRecorder()

	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.User.PoloBalance != 30 {
		t.Errorf("Expected starting balance 30, got %d", resp.User.PoloBalance)
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", resp.User.Email)
	}

	claims, err := auth.ParseToken(resp.Token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Returned token does not parse: %v", err)
	}
	if claims.Subject != resp.User.ID {
		t.Errorf("Token subject %s != user id %s", claims.Subject, resp.User.ID)
	}

	n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, resp.User.ID)
	if n != 1 {
		t.Errorf("Expected 1 signup transaction, got %d", n)
	}
}

func TestRegister_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	testutil.CreateTestUser(t, db, "taken", 30)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"duplicate username", models.RegisterRequest{Username: "taken", Email: "new@example.com", Password: "secret1"}, http.StatusConflict},
		{"duplicate email", models.RegisterRequest{Username: "fresh", Email: "taken@example.com", Password: "secret1"}, http.StatusConflict},
		{"short username", models.RegisterRequest{Username: "a", Email: "a@example.com", Password: "secret1"}, http.StatusBadRequest},
		{"bad email", models.RegisterRequest{Username: "bob", Email: "bob", Password: "secret1"}, http.StatusBadRequest},
		{"short password", models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"}, http.StatusBadRequest},
		{"invalid JSON", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/register", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM users`); n != 1 {
		t.Errorf("Expected only the seeded user, got %d users", n)
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "alice", 42)

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"valid credentials", "alice@example.com", testutil.TestPassword, http.StatusOK},
		{"email is case insensitive", "ALICE@example.com", testutil.TestPassword, http.StatusOK},
		{"wrong password", "alice@example.com", "nope", http.StatusUnauthorized},
		{"unknown email", "bob@example.com", testutil.TestPassword, http.StatusNotFound},
		{"missing fields", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/login", models.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.AuthResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.User.ID != userID || resp.User.PoloBalance != 42 {
				t.Errorf("Unexpected user in response: %+v", resp.User)
			}
			if resp.Token == "" {
				t.Error("Expected token in response")
			}
		})
	}
}
