// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Identity is a participant address. Callers are resolved to an Identity
// outside this package (see the auth package).
type Identity = common.Address

// Authority owns the roster, the voted set and the tally of one election.
// All mutating calls are serialized by a single lock.
type Authority struct {
	mu sync.RWMutex

	candidateCount int
	owner          Identity
	strict         bool

	registrationOpen bool
	registered       map[Identity]bool
	voted            map[Identity]bool
	tally            []uint64
	seq              uint64

	journal   Journal
	observers []Observer
	now       func() time.Time
}

// Option configures an Authority at construction
type Option func(*Authority)

// WithJournal persists every accepted event before it is applied
func WithJournal(j Journal) Option {
	return func(a *Authority) { a.journal = j }
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

// WithStrictRegistration rejects RegisterVoter once registration is closed.
// Without it the registration flag is advisory only.
func WithStrictRegistration() Option {
	return func(a *Authority) { a.strict = true }
}

// New creates an authority with a fixed candidate count and administrator
func New(candidateCount int, admin Identity, opts ...Option) (*Authority, error) {
	if candidateCount < 1 {
		return nil, fmt.Errorf("%w: candidate count must be at least 1, got %d", ErrInvalidConfiguration, candidateCount)
	}

	a := &Authority{
		candidateCount:   candidateCount,
		owner:            admin,
		registrationOpen: true,
		registered:       make(map[Identity]bool),
		voted:            make(map[Identity]bool),
		tally:            make([]uint64, candidateCount),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Restore rebuilds an authority by replaying history through the same
// checks the live operations use. The history is neither journaled nor
// sent to observers. Options are applied after the replay.
func Restore(candidateCount int, admin Identity, history []Event, opts ...Option) (*Authority, error) {
	a, err := New(candidateCount, admin)
	if err != nil {
		return nil, err
	}

	for _, e := range history {
		if e.Seq != a.seq+1 {
			return nil, fmt.Errorf("%w: event %d out of sequence (expected %d)", ErrInvalidConfiguration, e.Seq, a.seq+1)
		}

		switch e.Kind {
		case VoterRegistered:
			err = a.checkRegister(admin, e.Voter)
		case RegistrationClosed:
			err = a.checkAdmin(admin)
		case VoteSubmitted:
			err = a.checkVote(e.Voter, e.Candidate)
		default:
			err = fmt.Errorf("unknown event kind %q", e.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: replay of event %d: %v", ErrInvalidConfiguration, e.Seq, err)
		}

		a.apply(e)
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Subscribe adds an observer for events committed from now on
func (a *Authority) Subscribe(o Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// RegisterVoter adds target to the roster. Only the administrator may call it.
func (a *Authority) RegisterVoter(ctx context.Context, caller, target Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkRegister(caller, target); err != nil {
		return err
	}
	return a.commit(ctx, Event{Kind: VoterRegistered, Voter: target})
}

// CloseRegistration clears the registration flag. Repeated calls succeed
// and emit a notification each time.
func (a *Authority) CloseRegistration(ctx context.Context, caller Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkAdmin(caller); err != nil {
		return err
	}
	return a.commit(ctx, Event{Kind: RegistrationClosed})
}

// SubmitVote records caller's single vote for candidate
func (a *Authority) SubmitVote(ctx context.Context, caller Identity, candidate int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkVote(caller, candidate); err != nil {
		return err
	}
	return a.commit(ctx, Event{Kind: VoteSubmitted, Voter: caller, Candidate: candidate})
}

func (a *Authority) checkAdmin(caller Identity) error {
	if caller != a.owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller.Hex())
	}
	return nil
}

func (a *Authority) checkRegister(caller, target Identity) error {
	if err := a.checkAdmin(caller); err != nil {
		return err
	}
	if a.strict && !a.registrationOpen {
		return ErrRegistrationClosed
	}
	if a.registered[target] {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, target.Hex())
	}
	return nil
}

// Order matters: registration, then double voting, then range.
func (a *Authority) checkVote(caller Identity, candidate int) error {
	if !a.registered[caller] {
		return fmt.Errorf("%w: %s", ErrNotRegistered, caller.Hex())
	}
	if a.voted[caller] {
		return fmt.Errorf("%w: %s", ErrAlreadyVoted, caller.Hex())
	}
	if candidate < 0 || candidate >= a.candidateCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidCandidate, candidate, a.candidateCount)
	}
	return nil
}

// commit must be called with the write lock held and all checks passed
func (a *Authority) commit(ctx context.Context, e Event) error {
	e.Seq = a.seq + 1
	e.ID = uuid.NewString()
	e.At = a.now().UTC()

	if a.journal != nil {
		if err := a.journal.Append(ctx, e); err != nil {
			return fmt.Errorf("%w: %v", ErrJournal, err)
		}
	}

	a.apply(e)

	for _, o := range a.observers {
		o.Observe(e)
	}
	return nil
}

func (a *Authority) apply(e Event) {
	switch e.Kind {
	case VoterRegistered:
		a.registered[e.Voter] = true
	case RegistrationClosed:
		a.registrationOpen = false
	case VoteSubmitted:
		a.voted[e.Voter] = true
		a.tally[e.Candidate]++
	}
	a.seq = e.Seq
}

// Results returns a copy of the tally in candidate order
func (a *Authority) Results() []uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]uint64, len(a.tally))
	copy(out, a.tally)
	return out
}

func (a *Authority) CandidateCount() int { return a.candidateCount }

func (a *Authority) Owner() Identity { return a.owner }

func (a *Authority) Strict() bool { return a.strict }

func (a *Authority) IsRegistered(id Identity) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registered[id]
}

func (a *Authority) HasVoted(id Identity) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.voted[id]
}

func (a *Authority) RegistrationOpen() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registrationOpen
}

// Snapshot is a view of the authority taken at a single point in time
type Snapshot struct {
	CandidateCount   int
	Owner            Identity
	RegistrationOpen bool
	Registered       int
	Voted            int
	Tally            []uint64
	LastSeq          uint64
}

// Total returns the sum of the tally
func (s Snapshot) Total() uint64 {
	var n uint64
	for _, c := range s.Tally {
		n += c
	}
	return n
}

func (a *Authority) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	tally := make([]uint64, len(a.tally))
	copy(tally, a.tally)

	return Snapshot{
		CandidateCount:   a.candidateCount,
		Owner:            a.owner,
		RegistrationOpen: a.registrationOpen,
		Registered:       len(a.registered),
		Voted:            len(a.voted),
		Tally:            tally,
		LastSeq:          a.seq,
	}
}
