// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /screens/{screen}", middleware.WithLogging(handler))

Logs one line per request with method, path, status, remote and
duration_ms. 5xx responses are logged at ERROR.

# Server Wrappers

	server := http.Server{
		Handler: middleware.Recover(middleware.CORS(mux)),
	}

CORS reflects the request origin and allows credentials so a front end
on another host can carry the session cookie. Recover turns handler
panics into a 500.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, view)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid question id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Honors X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
