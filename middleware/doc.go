// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /checkins", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication

RequireAuth verifies the bearer token and stashes the caller's user id in
the request context:

	mux.HandleFunc("POST /checkins", middleware.RequireAuth(secret, handler))

Handlers read it back with middleware.UserID(r).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Every endpoint writes the same envelope through Success, SuccessMessage,
and Error:

	{"success": true, "data": ...}
	{"success": true, "message": "..."}
	{"success": false, "message": "..."}
*/
package middleware
