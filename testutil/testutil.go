// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/cache"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/db"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/store"
)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.SQLite,
		JWTSecret:       "test-jwt-secret",
		FingerprintSalt: "test-fingerprint-salt",
		GeoURL:          "",
		GeoTimeout:      time.Second,
		PollCacheTTL:    15 * time.Minute,
		VoteCacheTTL:    30 * time.Minute,
	}
}

// NewTestStore returns repositories over conn with a fresh memory cache
func NewTestStore(t *testing.T, conn *sql.DB) *store.Store {
	t.Helper()
	return store.New(conn, cache.NewMemory(time.Minute), store.Options{DatabaseType: db.SQLite})
}

// ClientID returns a deterministic valid client id for n
func ClientID(n int) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", n, n)
}

// CreateTestPoll saves a poll with one text option per label.
// Option ids are "opt-1", "opt-2", ... in label order.
func CreateTestPoll(t *testing.T, st *store.Store, clientID, status string, settings models.Settings, labels ...string) models.Poll {
	t.Helper()

	options := make([]models.Option, len(labels))
	for i, label := range labels {
		options[i] = models.Option{
			OptionID: fmt.Sprintf("opt-%d", i+1),
			Type:     models.OptionText,
			Option:   label,
		}
	}

	poll, err := st.Polls.Save(context.Background(), models.SavePollInput{
		ClientID: clientID,
		Title:    "Test Poll",
		Type:     models.TypePoll,
		Status:   status,
		Settings: settings,
		Options:  options,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll
}

// CastTestVote stores a ballot directly, bypassing admission checks
func CastTestVote(t *testing.T, st *store.Store, clientID, ip string, optionIDs ...string) models.Ballot {
	t.Helper()

	ballot, err := st.Votes.Vote(context.Background(), models.VoteRequest{
		ClientID:  clientID,
		OptionIDs: optionIDs,
		Voter:     models.Voter{IP: ip, Agent: "testutil", Country: "US"},
	})
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}

	return ballot
}

// BearerToken signs a token for the user and returns an Authorization header map
func BearerToken(t *testing.T, cfg cliparse.Config, userID int64, admin bool) map[string]string {
	t.Helper()

	tok, err := auth.SignToken(cfg.JWTSecret, userID, admin, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + tok}
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
