// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/ledger"
)

// TestCandidateCount is the candidate count used by test authorities
const TestCandidateCount = 3

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// Key is a test participant
type Key struct {
	Private *ecdsa.PrivateKey
	Address ballot.Identity
}

// NewKey generates a fresh secp256k1 key
func NewKey(t *testing.T) Key {
	t.Helper()

	k, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return Key{Private: k, Address: ethcrypto.PubkeyToAddress(k.PublicKey)}
}

// GetTestConfig returns a standard test configuration owned by admin
func GetTestConfig(admin ballot.Identity) cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   db.TypeSQLite,
		CandidateCount: TestCandidateCount,
		AdminAddress:   admin.Hex(),
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// CreateTestAuthority bootstraps an authority backed by conn
func CreateTestAuthority(t *testing.T, conn *sql.DB, cfg cliparse.Config) (*ballot.Authority, *ledger.Ledger) {
	t.Helper()

	a, l, err := ledger.Bootstrap(context.Background(), conn, ledger.Config{
		CandidateCount: cfg.CandidateCount,
		Admin:          cfg.Admin(),
		Strict:         cfg.StrictRegistration,
	})
	if err != nil {
		t.Fatalf("Failed to bootstrap authority: %v", err)
	}
	return a, l
}

// RegisterTestVoter registers voter directly on the authority
func RegisterTestVoter(t *testing.T, a *ballot.Authority, voter ballot.Identity) {
	t.Helper()

	if err := a.RegisterVoter(context.Background(), a.Owner(), voter); err != nil {
		t.Fatalf("Failed to register test voter: %v", err)
	}
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

// MakeSignedRequest creates an HTTP test request signed by key
func MakeSignedRequest(t *testing.T, key Key, method, path string, body interface{}) *http.Request {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
	}

	sig, err := auth.SignRequest(key.Private, method, path, raw)
	if err != nil {
		t.Fatalf("Failed to sign request: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.SignatureHeader, sig)
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
