// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - RegisterVoterRequest: voter (0x address)
  - SubmitVoteRequest: candidate (zero-based index)

# Response Types

  - RegisterVoterResponse, CloseRegistrationResponse, SubmitVoteResponse
  - ResultsResponse: results (tally in candidate order), total
  - BallotInfo: candidate count, owner, registration flag, counters
  - VoterStatus: registered, has_voted
  - Event, EventsResponse: the notification feed
  - ErrorResponse: error, kind, message

Addresses are rendered in EIP-55 checksum form.
*/
package models
