// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database of the given type and verifies the connection.
// SQLite is limited to one open connection so writers never see SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite, "":
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL sticks to types both SQLite and PostgreSQL accept.
const schema = `
-- The single ballot authority of this deployment
CREATE TABLE IF NOT EXISTS authority (
    id TEXT PRIMARY KEY,
    candidate_count INTEGER NOT NULL CHECK (candidate_count >= 1),
    owner TEXT NOT NULL,
    strict BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Append-only journal of accepted operations
CREATE TABLE IF NOT EXISTS ballot_event (
    authority_id TEXT NOT NULL REFERENCES authority(id) ON DELETE CASCADE,
    seq BIGINT NOT NULL,
    event_id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL CHECK (kind IN ('VoterRegistered', 'RegistrationClosed', 'VoteSubmitted')),
    voter TEXT,
    candidate INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (authority_id, seq),
    CHECK ((kind = 'RegistrationClosed') = (voter IS NULL)),
    CHECK ((kind = 'VoteSubmitted') = (candidate IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_ballot_event_voter ON ballot_event(authority_id, voter);
`
