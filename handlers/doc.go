// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Plenario API.

# Handler Types

Each handler is a struct with database, config, and (for mutating
handlers) notification hub dependencies:

  - SessionHandler: Plenary session lifecycle (open, close, archive)
  - PautaHandler: Agenda item management and its voting state machine
  - VotingHandler: Vote casting
  - ViewHandler: Role-specific read projections
  - StreamHandler: SSE snapshot streams
  - ViewerHandler: Stream presence

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(db, cfg, hub)

# Session Lifecycle

At most one session is open at a time; the partial unique index on
open sessions enforces this under concurrent opens.

	POST /sessions              → OpenSession
	POST /sessions/{id}/close   → CloseSession
	GET  /sessions/current      → CurrentSession
	GET  /sessions              → ListSessions (?status=closed archive)
	GET  /sessions/{id}/pautas  → SessionPautas

# Pauta State Machine

Pautas progress waiting → active → closed, with closed → active
allowed to reopen a discussion (the tally survives).

	POST   /sessions/{id}/pautas → CreatePauta
	PATCH  /pautas/{id}          → UpdatePauta
	DELETE /pautas/{id}          → DeletePauta (waiting, no votes only)
	POST   /pautas/{id}/start    → StartVoting
	POST   /pautas/{id}/close    → CloseVoting
	POST   /pautas/{id}/reopen   → ReopenVoting

# Voting

	POST /pautas/{id}/votes → CastVote

One vote per voter per pauta, enforced by the (pauta_id, voter_id)
primary key. A duplicate cast — including a concurrent cast with a
different outcome — returns conflict_error.

# Identity

All non-public endpoints require the X-Identity-Token header, an
HMAC-signed identity minted by the identity service. A token with no
role acts as a voter; a token with an unrecognized role is rejected
with 403 no_valid_role.

# Error Contract

Domain failures are reported with a machine-readable error field:
validation_error (400), not_found (404), conflict_error (409),
state_error (422). See the fault package.
*/
package handlers
