// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

type VotingHandler struct {
	authority *ballot.Authority
	metrics   *metrics.Collector
}

func NewVotingHandler(a *ballot.Authority, m *metrics.Collector) *VotingHandler {
	return &VotingHandler{authority: a, metrics: m}
}

// SubmitVote handles POST /votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Candidate == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate is required")
		return
	}

	// Range is checked by the authority so the error order stays
	// NotRegistered, AlreadyVoted, InvalidCandidate
	if err := h.authority.SubmitVote(r.Context(), caller, *req.Candidate); err != nil {
		writeBallotError(w, h.metrics, OpSubmitVote, caller, err)
		return
	}

	slog.Info("vote submitted", "voter", caller.Hex(), "candidate", *req.Candidate)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Voter:     caller.Hex(),
		Candidate: *req.Candidate,
		Message:   "Vote recorded",
	})
}
