// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Tally API.

# Route Registration

NewRouter wraps an http.ServeMux with CORS (github.com/go-chi/cors):

	handler := router.NewRouter(router.Deps{
		Authority: authority,
		Ledger:    ledger,
		Metrics:   collector,
		Hub:       hub,
	}, cfg)

Metrics and Hub may be nil, in which case their routes are not mounted.

# Endpoints

Health:

	GET /health

Administrator (signed by the owner address):

	POST /voters              - Register a voter
	POST /registration/close  - Close registration

Voting (signed by a registered voter):

	POST /votes - Submit the caller's single vote

Public reads:

	GET /ballot             - Candidate count, owner, counters
	GET /results            - Tally in candidate order
	GET /voters/{address}   - Registration and voting status
	GET /events             - Event feed (after, limit)
	GET /events/ws          - Live event stream (websocket)
	GET /metrics            - Prometheus metrics

# CORS

Allowed origins come from cfg.AllowedOrigins. The signature headers are
allowed request headers. CheckOrigin applies the same list to websocket
upgrades:

	hub := stream.NewHub(0, router.CheckOrigin(cfg.AllowedOrigins))
*/
package router
