// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/quickly-tally/ballot"
)

// Paging limits for Events
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

var ErrNoAuthority = errors.New("no authority has been created")

// ErrCorruptEvent is returned for a journal row that no accepted operation
// could have written
var ErrCorruptEvent = errors.New("corrupt journal event")

// Record is the stored description of the authority
type Record struct {
	ID             string
	CandidateCount int
	Owner          ballot.Identity
	Strict         bool
	CreatedAt      time.Time
}

// Ledger is the SQL journal of one authority. It implements ballot.Journal.
type Ledger struct {
	db          *sql.DB
	authorityID string
}

func New(db *sql.DB, authorityID string) *Ledger {
	return &Ledger{db: db, authorityID: authorityID}
}

func (l *Ledger) AuthorityID() string { return l.authorityID }

// Append writes one event. The (authority_id, seq) primary key rejects a
// second writer that races on the same sequence number.
func (l *Ledger) Append(ctx context.Context, e ballot.Event) error {
	var voter, candidate any
	if e.Kind != ballot.RegistrationClosed {
		voter = e.Voter.Hex()
	}
	if e.Kind == ballot.VoteSubmitted {
		candidate = e.Candidate
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO ballot_event (authority_id, seq, event_id, kind, voter, candidate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.authorityID, int64(e.Seq), e.ID, string(e.Kind), voter, candidate, e.At)
	if err != nil {
		return fmt.Errorf("failed to insert event %d: %w", e.Seq, err)
	}
	return nil
}

// Events returns up to limit events with seq > after, in order.
// A limit <= 0 returns everything.
func (l *Ledger) Events(ctx context.Context, after uint64, limit int) ([]ballot.Event, error) {
	// seq is a signed BIGINT; nothing is stored past MaxInt64
	if after >= math.MaxInt64 {
		return []ballot.Event{}, nil
	}

	query := `
		SELECT seq, event_id, kind, voter, candidate, created_at
		FROM ballot_event
		WHERE authority_id = $1 AND seq > $2
		ORDER BY seq
	`
	args := []any{l.authorityID, int64(after)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []ballot.Event{}
	for rows.Next() {
		var (
			e         ballot.Event
			seq       int64
			kind      string
			voter     sql.NullString
			candidate sql.NullInt64
		)
		if err := rows.Scan(&seq, &e.ID, &kind, &voter, &candidate, &e.At); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Seq = uint64(seq)
		e.Kind = ballot.EventKind(kind)
		if err := decodeEvent(&e, voter, candidate); err != nil {
			return nil, err
		}
		e.At = e.At.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// decodeEvent fills the voter and candidate of e, refusing rows whose
// nullable columns do not fit the kind
func decodeEvent(e *ballot.Event, voter sql.NullString, candidate sql.NullInt64) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: event %d has unknown kind %q", ErrCorruptEvent, e.Seq, e.Kind)
	}

	wantVoter := e.Kind != ballot.RegistrationClosed
	if voter.Valid != wantVoter {
		return fmt.Errorf("%w: event %d (%s) voter presence %v", ErrCorruptEvent, e.Seq, e.Kind, voter.Valid)
	}
	if voter.Valid {
		if !common.IsHexAddress(voter.String) {
			return fmt.Errorf("%w: event %d voter %q is not an address", ErrCorruptEvent, e.Seq, voter.String)
		}
		e.Voter = common.HexToAddress(voter.String)
	}

	wantCandidate := e.Kind == ballot.VoteSubmitted
	if candidate.Valid != wantCandidate {
		return fmt.Errorf("%w: event %d (%s) candidate presence %v", ErrCorruptEvent, e.Seq, e.Kind, candidate.Valid)
	}
	if candidate.Valid {
		e.Candidate = int(candidate.Int64)
	}
	return nil
}

// LoadRecord returns the stored authority, or ErrNoAuthority
func LoadRecord(ctx context.Context, db *sql.DB) (Record, error) {
	var (
		rec   Record
		owner string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, candidate_count, owner, strict, created_at
		FROM authority
		ORDER BY created_at
		LIMIT 1
	`).Scan(&rec.ID, &rec.CandidateCount, &owner, &rec.Strict, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return Record{}, ErrNoAuthority
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to query authority: %w", err)
	}

	rec.Owner = common.HexToAddress(owner)
	return rec, nil
}

// CreateRecord stores a new authority description
func CreateRecord(ctx context.Context, db *sql.DB, rec Record) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO authority (id, candidate_count, owner, strict, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.CandidateCount, rec.Owner.Hex(), rec.Strict, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert authority: %w", err)
	}
	return nil
}
