// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Tally API.

# Handler Types

Each handler wraps the single ballot.Authority of the process:

  - AdminHandler: voter registration and closing registration
  - VotingHandler: vote submission
  - ResultsHandler: ballot info, results, voter status and the event feed

	adminHandler := handlers.NewAdminHandler(authority, metrics)

# Caller Identity

Mutating requests are signed, see package auth. The recovered address is
the caller passed to the authority:

	POST /voters               → RegisterVoter (administrator)
	POST /registration/close   → CloseRegistration (administrator)
	POST /votes                → SubmitVote (registered voter)

A missing or invalid signature is a 401. Authority rejections carry the
error kind in the body:

	{"error":"Conflict","kind":"already_voted","message":"This address has already voted"}

with status 403 (unauthorized, not_registered), 409 (already_registered,
already_voted, registration_closed) or 400 (invalid_candidate). A journal
failure is a 500 and leaves the ballot unchanged.

# Reads

	GET /ballot             → GetBallot
	GET /results            → GetResults
	GET /voters/{address}   → GetVoter
	GET /events?after=&limit= → GetEvents

Reads never need a signature.
*/
package handlers
