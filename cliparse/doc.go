// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - CandidateCount: Number of candidates, fixed when the authority is created
  - AdminAddress: Administrator address, fixed when the authority is created
  - StrictRegistration: Reject registrations once registration is closed
  - AllowedOrigins: CORS origins (default: *)
  - LogLevel, LogFormat: slog settings (default: info, text)

# CLI Flags

	-p                   Server port
	-d                   Database URL
	-t                   Database type
	-candidates          Candidate count
	-admin               Administrator address
	-strict-registration true/false
	-origins             Comma separated CORS origins
	-log-level           debug, info, warn, error
	-log-format          text, json
	-env-file            Env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	CANDIDATE_COUNT     → -candidates
	ADMIN_ADDRESS       → -admin
	STRICT_REGISTRATION → -strict-registration
	ALLOWED_ORIGINS     → -origins
	LOG_LEVEL           → -log-level
	LOG_FORMAT          → -log-format

CLI flags take precedence over environment variables, which take
precedence over the env file.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - the database type, admin address, candidate count, strict flag or log
    format is malformed

CandidateCount and AdminAddress are only required the first time a
database is used; the ledger package enforces that.
*/
package cliparse
