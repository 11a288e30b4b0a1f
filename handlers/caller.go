// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/middleware"
)

// Operation names used in logs and metric labels
const (
	OpRegisterVoter     = "register_voter"
	OpCloseRegistration = "close_registration"
	OpSubmitVote        = "submit_vote"
)

// authenticate recovers the caller from the request signature. The body
// is left readable for the handler. On failure an error response has
// already been written.
func authenticate(w http.ResponseWriter, r *http.Request) (ballot.Identity, bool) {
	body, err := middleware.ReadBody(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return ballot.Identity{}, false
	}

	caller, err := auth.VerifyCaller(r.Method, r.URL.Path, body,
		r.Header.Get(auth.SignatureHeader), r.Header.Get(auth.AddressHeader))
	if err != nil {
		slog.Info("caller authentication failed", "path", r.URL.Path, "error", err)
		switch {
		case errors.Is(err, auth.ErrMissingSignature):
			middleware.ErrorResponse(w, http.StatusUnauthorized, auth.SignatureHeader+" header required")
		case errors.Is(err, auth.ErrAddressMismatch):
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Signature does not belong to "+auth.AddressHeader)
		case errors.Is(err, auth.ErrInvalidAddress):
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+auth.AddressHeader)
		default:
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid signature")
		}
		return ballot.Identity{}, false
	}
	return caller, true
}

// messages gives each error kind its own user-facing text
var messages = map[string]string{
	ballot.KindUnauthorized:       "Only the ballot administrator can do this",
	ballot.KindAlreadyRegistered:  "This address is already registered",
	ballot.KindNotRegistered:      "This address is not a registered voter",
	ballot.KindAlreadyVoted:       "This address has already voted",
	ballot.KindInvalidCandidate:   "Candidate index is out of range",
	ballot.KindRegistrationClosed: "Registration is closed",
}

// StatusFor maps an authority error to an HTTP status code
func StatusFor(err error) int {
	switch ballot.Kind(err) {
	case ballot.KindUnauthorized, ballot.KindNotRegistered:
		return http.StatusForbidden
	case ballot.KindAlreadyRegistered, ballot.KindAlreadyVoted, ballot.KindRegistrationClosed:
		return http.StatusConflict
	case ballot.KindInvalidCandidate, ballot.KindInvalidConfiguration:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeBallotError logs, counts and writes a failed authority call
func writeBallotError(w http.ResponseWriter, m *metrics.Collector, op string, caller ballot.Identity, err error) {
	kind := ballot.Kind(err)
	if m != nil {
		m.Rejected(op, err)
	}

	if !ballot.IsRejection(err) {
		slog.Error("authority call failed", "op", op, "caller", caller.Hex(), "error", err)
		middleware.KindErrorResponse(w, http.StatusInternalServerError, kind, "Failed to record change")
		return
	}

	slog.Info("authority call rejected", "op", op, "caller", caller.Hex(), "kind", kind)
	msg, ok := messages[kind]
	if !ok {
		msg = err.Error()
	}
	middleware.KindErrorResponse(w, StatusFor(err), kind, msg)
}
