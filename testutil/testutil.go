// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
)

// TestDBURL is an in-memory SQLite database, private to each connection pool
const TestDBURL = "file::memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    TestDBURL,
		DatabaseType:   cliparse.DatabaseSQLite,
		BaseURL:        "http://vote.test/vote",
		SessionSalt:    "test-session-salt",
		MaxUploadBytes: 1 << 20,
		SessionTTL:     time.Hour,
	}
}

// CreateTestQuestion inserts a question with options and returns the IDs
// Option IDs are returned in the order of the labels
func CreateTestQuestion(t *testing.T, conn *sqlx.DB, text string, labels ...string) (questionID int64, optionIDs []int64) {
	t.Helper()

	err := conn.QueryRowx(`
		INSERT INTO questions (question_text, created_at)
		VALUES (?, ?)
		RETURNING id
	`, text, time.Now().UTC()).Scan(&questionID)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	for _, label := range labels {
		var optionID int64
		err := conn.QueryRowx(`
			INSERT INTO options (question_id, option_text)
			VALUES (?, ?)
			RETURNING id
		`, questionID, label).Scan(&optionID)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return questionID, optionIDs
}

// AddTestVotes records n votes for an option
func AddTestVotes(t *testing.T, conn *sqlx.DB, questionID, optionID int64, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := conn.Exec(`
			INSERT INTO votes (question_id, option_id, created_at)
			VALUES (?, ?, ?)
		`, questionID, optionID, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}
}

// CountRows returns the number of rows in a table matching question_id
func CountRows(t *testing.T, conn *sqlx.DB, table string, questionID int64) int {
	t.Helper()

	var n int
	// table names come from test code only
	if err := conn.Get(&n, `SELECT COUNT(*) FROM `+table+` WHERE question_id = ?`, questionID); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
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
