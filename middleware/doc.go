// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, status, client IP and
duration_ms. 5xx responses are logged at error level.

# CORS Middleware

Enable cross-origin requests from the configured frontends:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins)(mux),
	}

Matching origins are echoed back with credentials allowed. "*" in the
list matches any origin. Preflights allow GET, POST, PUT, PATCH, DELETE
and OPTIONS, and whatever headers the browser asks for (X-User-Id by
default). Preflight requests are answered with 200 and never reach the
mux.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Errors use the {"error": <status text>, "message": <detail>} shape.

Parse JSON request bodies (capped at 1 MiB):

	var req models.IdentifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
