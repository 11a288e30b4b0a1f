package models

import "github.com/danielhkuo/quickly-tally/ballot"

// NewEvent converts an authority event to its wire form
func NewEvent(e ballot.Event) Event {
	out := Event{
		Seq:  e.Seq,
		ID:   e.ID,
		Kind: string(e.Kind),
		At:   e.At,
	}
	if e.Kind != ballot.RegistrationClosed {
		out.Voter = e.Voter.Hex()
	}
	if e.Kind == ballot.VoteSubmitted {
		c := e.Candidate
		out.Candidate = &c
	}
	return out
}

// NewEvents converts a page of events, never returning nil
func NewEvents(events []ballot.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, NewEvent(e))
	}
	return out
}
