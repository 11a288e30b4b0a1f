// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-tally/ballot"
)

// Config is what a deployment asks for. Zero values mean "whatever is
// stored" once an authority exists.
type Config struct {
	CandidateCount int
	Admin          ballot.Identity
	Strict         bool
}

// Bootstrap creates the authority on first start, or reloads it and replays
// its journal on later starts. The returned authority journals to the
// returned ledger.
func Bootstrap(ctx context.Context, db *sql.DB, cfg Config, opts ...ballot.Option) (*ballot.Authority, *Ledger, error) {
	rec, err := LoadRecord(ctx, db)
	switch {
	case errors.Is(err, ErrNoAuthority):
		rec, err = create(ctx, db, cfg)
		if err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		if err := matches(rec, cfg); err != nil {
			return nil, nil, err
		}
	}

	l := New(db, rec.ID)
	history, err := l.Events(ctx, 0, 0)
	if err != nil {
		return nil, nil, err
	}

	opts = append(opts, ballot.WithJournal(l))
	if rec.Strict {
		opts = append(opts, ballot.WithStrictRegistration())
	}

	a, err := ballot.Restore(rec.CandidateCount, rec.Owner, history, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore authority %s: %w", rec.ID, err)
	}

	slog.Info("authority ready",
		"authority_id", rec.ID,
		"candidates", rec.CandidateCount,
		"owner", rec.Owner.Hex(),
		"strict", rec.Strict,
		"replayed_events", len(history),
	)
	return a, l, nil
}

func create(ctx context.Context, db *sql.DB, cfg Config) (Record, error) {
	if cfg.CandidateCount < 1 {
		return Record{}, fmt.Errorf("%w: candidate count must be at least 1, got %d", ballot.ErrInvalidConfiguration, cfg.CandidateCount)
	}
	if cfg.Admin == (ballot.Identity{}) {
		return Record{}, fmt.Errorf("%w: admin address required", ballot.ErrInvalidConfiguration)
	}

	rec := Record{
		ID:             uuid.NewString(),
		CandidateCount: cfg.CandidateCount,
		Owner:          cfg.Admin,
		Strict:         cfg.Strict,
		CreatedAt:      time.Now().UTC(),
	}
	if err := CreateRecord(ctx, db, rec); err != nil {
		return Record{}, err
	}

	slog.Info("authority created", "authority_id", rec.ID)
	return rec, nil
}

// The candidate count and the owner are immutable; a deployment asking for
// different ones is refused rather than silently ignored.
func matches(rec Record, cfg Config) error {
	if cfg.CandidateCount != 0 && cfg.CandidateCount != rec.CandidateCount {
		return fmt.Errorf("%w: stored authority has %d candidates, config asks for %d",
			ballot.ErrInvalidConfiguration, rec.CandidateCount, cfg.CandidateCount)
	}
	if cfg.Admin != (ballot.Identity{}) && cfg.Admin != rec.Owner {
		return fmt.Errorf("%w: stored authority is owned by %s, config names %s",
			ballot.ErrInvalidConfiguration, rec.Owner.Hex(), cfg.Admin.Hex())
	}
	if cfg.Strict != rec.Strict {
		return fmt.Errorf("%w: stored authority has strict registration %v, config asks for %v",
			ballot.ErrInvalidConfiguration, rec.Strict, cfg.Strict)
	}
	return nil
}
