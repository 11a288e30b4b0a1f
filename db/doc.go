// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Drivers

	conn, err := db.Open(db.TypeSQLite, "file:tally.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite (modernc.org/sqlite, pure Go) is the default; PostgreSQL goes
through lib/pq. Queries use $N placeholders, which both accept.

# Tables

  - authority: one row, the candidate count and administrator fixed at
    first boot
  - ballot_event: the ordered journal of accepted operations, keyed by
    (authority_id, seq)

Tally, roster and voted set are not stored; they are rebuilt by replaying
ballot_event at startup (see package ledger).

# Usage

	if err := db.CreateSchema(conn); err != nil {
		return err
	}

CreateSchema is idempotent.
*/
package db
