// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Plenario API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, hub, cfg)

# Endpoints

Health:

	GET /health

Session lifecycle (admin, requires X-Identity-Token):

	POST /sessions             - Open session
	POST /sessions/{id}/close  - Close session
	GET  /sessions/current     - Current open session (public)
	GET  /sessions             - Session archive (?status=closed)
	GET  /sessions/{id}/pautas - Pautas with tallies, live or closed

Pauta management (admin):

	POST   /sessions/{id}/pautas - Create pauta
	PATCH  /pautas/{id}          - Edit title/author/description
	DELETE /pautas/{id}          - Delete (waiting, no votes only)
	POST   /pautas/{id}/start    - Open voting
	POST   /pautas/{id}/close    - Close voting
	POST   /pautas/{id}/reopen   - Reopen voting, tally kept

Voting (voter or admin):

	POST /pautas/{id}/votes - Cast vote

Projections (role-gated; overlay is public):

	GET /views/admin
	GET /views/voter
	GET /views/observer[?session_id=...]
	GET /views/overlay

Streams (SSE, one snapshot event per state change):

	GET /stream/{admin|voter|observer}
	GET /stream/overlay

Presence (admin):

	GET /viewers

# Handler Initialization

The router creates handler instances with dependency injection; the
mutating handlers also receive the notification hub so streams learn
about every committed change.
*/
package router
