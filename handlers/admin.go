// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

type AdminHandler struct {
	authority *ballot.Authority
	metrics   *metrics.Collector
}

// NewAdminHandler creates the handler for administrator operations.
// m may be nil.
func NewAdminHandler(a *ballot.Authority, m *metrics.Collector) *AdminHandler {
	return &AdminHandler{authority: a, metrics: m}
}

// RegisterVoter handles POST /voters
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Voter == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter is required")
		return
	}

	voter, err := auth.ParseAddress(req.Voter)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter must be a hex address")
		return
	}

	if err := h.authority.RegisterVoter(r.Context(), caller, voter); err != nil {
		writeBallotError(w, h.metrics, OpRegisterVoter, caller, err)
		return
	}

	slog.Info("voter registered", "voter", voter.Hex())

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Voter:   voter.Hex(),
		Message: "Voter registered",
	})
}

// CloseRegistration handles POST /registration/close
func (h *AdminHandler) CloseRegistration(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r)
	if !ok {
		return
	}

	if err := h.authority.CloseRegistration(r.Context(), caller); err != nil {
		writeBallotError(w, h.metrics, OpCloseRegistration, caller, err)
		return
	}

	slog.Info("registration closed")

	middleware.JSONResponse(w, http.StatusOK, models.CloseRegistrationResponse{
		RegistrationOpen: h.authority.RegistrationOpen(),
		Message:          "Registration closed",
	})
}
