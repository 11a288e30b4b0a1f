package models

import "time"

// Request types

type RegisterVoterRequest struct {
	Voter string `json:"voter"`
}

// Candidate is a pointer so a missing field is told apart from candidate 0
type SubmitVoteRequest struct {
	Candidate *int `json:"candidate"`
}

// Response types

type RegisterVoterResponse struct {
	Voter   string `json:"voter"`
	Message string `json:"message"`
}

type CloseRegistrationResponse struct {
	RegistrationOpen bool   `json:"registration_open"`
	Message          string `json:"message"`
}

type SubmitVoteResponse struct {
	Voter     string `json:"voter"`
	Candidate int    `json:"candidate"`
	Message   string `json:"message"`
}

type ResultsResponse struct {
	Results []uint64 `json:"results"`
	Total   uint64   `json:"total"`
}

type BallotInfo struct {
	AuthorityID        string `json:"authority_id"`
	CandidateCount     int    `json:"candidate_count"`
	Owner              string `json:"owner"`
	RegistrationOpen   bool   `json:"registration_open"`
	StrictRegistration bool   `json:"strict_registration"`
	RegisteredVoters   int    `json:"registered_voters"`
	VotesCast          int    `json:"votes_cast"`
	LastEventSeq       uint64 `json:"last_event_seq"`
}

type VoterStatus struct {
	Address    string `json:"address"`
	Registered bool   `json:"registered"`
	HasVoted   bool   `json:"has_voted"`
}

// Event is the wire form of a ballot notification.
// Voter is omitted for RegistrationClosed; Candidate only set for VoteSubmitted.
type Event struct {
	Seq       uint64    `json:"seq"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Voter     string    `json:"voter,omitempty"`
	Candidate *int      `json:"candidate,omitempty"`
	At        time.Time `json:"at"`
}

type EventsResponse struct {
	Events  []Event `json:"events"`
	LastSeq uint64  `json:"last_seq"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
