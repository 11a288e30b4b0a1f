// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

// ResultsHandler serves the read-only endpoints. None of them require a
// signature.
type ResultsHandler struct {
	authority *ballot.Authority
	ledger    *ledger.Ledger
}

func NewResultsHandler(a *ballot.Authority, l *ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{authority: a, ledger: l}
}

// GetBallot handles GET /ballot
func (h *ResultsHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	s := h.authority.Snapshot()

	middleware.JSONResponse(w, http.StatusOK, models.BallotInfo{
		AuthorityID:        h.ledger.AuthorityID(),
		CandidateCount:     s.CandidateCount,
		Owner:              s.Owner.Hex(),
		RegistrationOpen:   s.RegistrationOpen,
		StrictRegistration: h.authority.Strict(),
		RegisteredVoters:   s.Registered,
		VotesCast:          s.Voted,
		LastEventSeq:       s.LastSeq,
	})
}

// GetResults handles GET /results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	s := h.authority.Snapshot()

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Results: s.Tally,
		Total:   s.Total(),
	})
}

// GetVoter handles GET /voters/{address}
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	addr, err := auth.ParseAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address must be a hex address")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterStatus{
		Address:    addr.Hex(),
		Registered: h.authority.IsRegistered(addr),
		HasVoted:   h.authority.HasVoted(addr),
	})
}

// GetEvents handles GET /events?after=N&limit=M
func (h *ResultsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = n
	}

	limit := ledger.DefaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, ledger.MaxPageSize)
	}

	events, err := h.ledger.Events(r.Context(), after, limit)
	if err != nil {
		slog.Error("failed to read events", "error", err, "after", after)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	lastSeq := after
	if len(events) > 0 {
		lastSeq = events[len(events)-1].Seq
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{
		Events:  models.NewEvents(events),
		LastSeq: lastSeq,
	})
}
