// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides shared helpers for handler and store tests.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/campus-pulse/auth"
	"github.com/danielhkuo/campus-pulse/cliparse"
	"github.com/danielhkuo/campus-pulse/db"
	"github.com/danielhkuo/campus-pulse/models"
)

const TestJWTSecret = "test-jwt-secret"

// SetupTestDB opens an in-memory sqlite database with the full schema. One
// connection max, because each :memory: connection is its own database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := db.CreateSchema(database); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	t.Cleanup(func() { database.Close() })
	return database
}

// GetTestConfig returns a config suitable for handler tests.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         0,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    TestJWTSecret,
	}
}

// CreateTestUser inserts a user row directly.
func CreateTestUser(t *testing.T, database *sql.DB, id, displayName, cohort string) models.User {
	t.Helper()

	u := models.User{ID: id, DisplayName: displayName, Cohort: cohort}
	_, err := database.Exec(`
		INSERT INTO app_user (id, display_name, avatar_url, cohort)
		VALUES ($1, $2, NULL, $3)
	`, id, displayName, sql.NullString{String: cohort, Valid: cohort != ""})
	if err != nil {
		t.Fatalf("creating test user %s: %v", id, err)
	}
	return u
}

// AuthToken issues a short-lived token for userID signed with the test secret.
func AuthToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.IssueToken(userID, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("issuing test token: %v", err)
	}
	return token
}

// MakeRequest builds a request with an optional JSON body.
func MakeRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

// DecodeResponse unmarshals the recorded envelope.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return resp
}
