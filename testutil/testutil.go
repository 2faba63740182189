// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/polloroid/auth"
	"github.com/danielhkuo/polloroid/cliparse"
	"github.com/danielhkuo/polloroid/db"
)

// TestPassword is the plaintext password of every user made by CreateTestUser
const TestPassword = "password123"

// PNGHeader is enough for content sniffing to report image/png
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// SetupTestDB opens a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "test.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseType:      cliparse.DatabaseSQLite,
		DatabaseURL:       "file::memory:",
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		UploadDir:         "uploads",
		MaxUploadMB:       10,
		AuthRatePerMinute: 0,
		LogLevel:          slog.LevelInfo,
	}
}

// CreateTestUser inserts a user holding balance Polo, backed by a matching
// signup transaction so the ledger audit stays consistent. Returns the user ID.
func CreateTestUser(t *testing.T, conn *sql.DB, username string, balance int64) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO users (id, username, email, password_hash, polo_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, username, username+"@example.com", string(hash), balance, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	if balance != 0 {
		_, err = conn.Exec(`
			INSERT INTO transactions (id, user_id, amount, type, description, created_at)
			VALUES ($1, $2, $3, 'credit', 'Signup bonus', $4)
		`, uuid.NewString(), userID, balance, now)
		if err != nil {
			t.Fatalf("Failed to create signup transaction: %v", err)
		}
	}

	return userID
}

// CreateTestPoll inserts a poll with numOptions zero-count options without
// charging the creator. Returns the poll ID and option IDs in position order.
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID string, numOptions int, expiresAt *time.Time) (string, []string) {
	t.Helper()

	pollID := uuid.NewString()
	var expires sql.NullTime
	if expiresAt != nil {
		expires = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	_, err := conn.Exec(`
		INSERT INTO polls (id, user_id, description, required_votes, created_at, expires_at)
		VALUES ($1, $2, 'Which one?', 5, $3, $4)
	`, pollID, creatorID, time.Now().UTC(), expires)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, numOptions)
	for i := 0; i < numOptions; i++ {
		optionID := uuid.NewString()
		_, err := conn.Exec(`
			INSERT INTO poll_options (id, poll_id, image_url, position, vote_count)
			VALUES ($1, $2, $3, $4, 0)
		`, optionID, pollID, "/uploads/"+optionID+".png", i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// GetBalance reads a user's stored balance
func GetBalance(t *testing.T, conn *sql.DB, userID string) int64 {
	t.Helper()

	var balance int64
	if err := conn.QueryRow(`SELECT polo_balance FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	return balance
}

// CountRows runs a COUNT(*) style query and returns the result
func CountRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// AuthHeader returns an Authorization header carrying a valid token for the user
func AuthHeader(t *testing.T, cfg cliparse.Config, userID, username string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(userID, username, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// FormFile is one file part of a multipart request
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

// PNGFile returns a small file that sniffs as image/png
func PNGFile(field, filename string) FormFile {
	return FormFile{Field: field, Filename: filename, Content: PNGHeader}
}

// MakeMultipartRequest creates a multipart/form-data test request
func MakeMultipartRequest(t *testing.T, method, path string, fields map[string]string, files []FormFile, headers map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(f.Content)); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
