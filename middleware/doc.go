// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

Cross-origin requests are handled by github.com/go-chi/cors in the router
package.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.KindErrorResponse(w, http.StatusConflict, "already_voted", "message")

Signed endpoints need the raw bytes for signature checks and the decoded
value afterwards. ReadBody caps the body at MaxBodyBytes and puts it back
so ParseJSONBody can still decode it:

	raw, err := middleware.ReadBody(r)
	...
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only used for request logs. Caller identity comes from the request
signature, never the address.
*/
package middleware
