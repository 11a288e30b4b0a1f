// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/handlers"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/stream"
)

// Deps are the long-lived components the routes are served from
type Deps struct {
	Authority *ballot.Authority
	Ledger    *ledger.Ledger
	Metrics   *metrics.Collector
	Hub       *stream.Hub
}

func NewRouter(deps Deps, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(deps.Authority, deps.Metrics)
	votingHandler := handlers.NewVotingHandler(deps.Authority, deps.Metrics)
	resultsHandler := handlers.NewResultsHandler(deps.Authority, deps.Ledger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Administrator operations (signed)
	mux.HandleFunc("POST /voters", middleware.WithLogging(adminHandler.RegisterVoter))
	mux.HandleFunc("POST /registration/close", middleware.WithLogging(adminHandler.CloseRegistration))

	// Voting (signed)
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.SubmitVote))

	// Public reads
	mux.HandleFunc("GET /ballot", middleware.WithLogging(resultsHandler.GetBallot))
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /voters/{address}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /events", middleware.WithLogging(resultsHandler.GetEvents))

	// The hub needs the raw ResponseWriter to hijack the connection
	if deps.Hub != nil {
		mux.Handle("GET /events/ws", deps.Hub)
	}
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-tally API v1"))
	})

	return cors.Handler(corsOptions(cfg.AllowedOrigins))(mux)
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			auth.SignatureHeader,
			auth.AddressHeader,
		},
		MaxAge: 300,
	}
}

// CheckOrigin builds a websocket origin check from the CORS origin list.
// Requests without an Origin header (non-browser clients) are accepted.
func CheckOrigin(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}
