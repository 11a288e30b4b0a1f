// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Tally API server.

Quickly Tally runs one election: an administrator registers voter
addresses, each registered voter casts exactly one vote for a candidate
index, and anyone can read the tally. Every accepted change is written to
a SQL journal and replayed on restart.

# Starting the Server

	quickly-tally serve -d file:ballot.db -candidates 3 -admin 0xf39F...

Or with environment variables:

	DATABASE_URL=file:ballot.db CANDIDATE_COUNT=3 ADMIN_ADDRESS=0xf39F... quickly-tally serve

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - CANDIDATE_COUNT (-candidates): Number of candidates, first boot only
  - ADMIN_ADDRESS (-admin): Administrator address, first boot only

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - STRICT_REGISTRATION (-strict-registration): Reject registrations after close
  - ALLOWED_ORIGINS (-origins): Comma separated CORS origins (default: *)
  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format): slog settings

A .env file in the working directory is loaded when present.

# Other Commands

	quickly-tally keygen                        # new key and address
	quickly-tally sign --key K --path /votes --body '{"candidate":1}'
	quickly-tally tally -d file:ballot.db       # offline results

# Architecture

  - ballot: The authority state machine (roster, votes, tally, events)
  - ledger: SQL journal, boot and replay
  - handlers: HTTP request handlers (admin, voting, results)
  - router: Route definitions using Go 1.22+ routing, CORS
  - middleware: Logging, JSON helpers
  - models: Request/response types
  - auth: Request signatures and caller recovery
  - metrics: Prometheus collector
  - stream: Websocket event stream
  - db: Schema creation and driver selection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
