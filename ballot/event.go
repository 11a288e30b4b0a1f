// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"time"
)

// EventKind names a notification emitted by the authority
type EventKind string

const (
	VoterRegistered    EventKind = "VoterRegistered"
	RegistrationClosed EventKind = "RegistrationClosed"
	VoteSubmitted      EventKind = "VoteSubmitted"
)

// Valid reports whether k is one of the known event kinds
func (k EventKind) Valid() bool {
	switch k {
	case VoterRegistered, RegistrationClosed, VoteSubmitted:
		return true
	}
	return false
}

// Event is one accepted state change.
//
// Voter is the zero address for RegistrationClosed. Candidate is only
// meaningful for VoteSubmitted.
type Event struct {
	Seq       uint64
	ID        string
	Kind      EventKind
	Voter     Identity
	Candidate int
	At        time.Time
}

// Observer receives events after they are committed. Observe is called
// while the authority holds its write lock, so implementations must not
// block and must not call back into the authority's mutating methods.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Journal persists an event before it is applied. If Append fails the
// mutation is abandoned and the caller receives ErrJournal.
type Journal interface {
	Append(ctx context.Context, e Event) error
}
