// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Helpers

  - JSONResponse: write JSON with a status code
  - ErrorResponse: write the JSON error envelope
  - FaultResponse: write a fault, mapping its kind to the HTTP status
    (validation 400, not_found 404, conflict 409, state 422)
  - ParseJSONBody: decode a request body

# Middleware

  - WithLogging: request start/completion logging via slog
  - CORS: cross-origin headers + preflight handling for the web client
*/
package middleware
