// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - OpenSessionRequest: name
  - CreatePautaRequest: title, author, description
  - UpdatePautaRequest: optional title/author/description (PATCH)
  - StartVotingRequest: voting_type
  - CastVoteRequest: outcome

# Response Types

Types for JSON responses:

  - CurrentSessionResponse: session (or null)
  - SessionPautasResponse: session + pautas with tallies
  - CastVoteResponse: pauta_id, outcome, message
  - ErrorResponse: error (machine code), message

# Domain Types

Internal data structures:

  - Session: one sitting, open or closed
  - Pauta: agenda item with lifecycle status and tally
  - Tally: the three outcome buckets (yes/no/abstain), arrival order
  - Vote: {voter_id, voter_label}
  - Viewer: presence record for a connected stream client

# Constants

Session status:

	SessionOpen   = "open"
	SessionClosed = "closed"

Pauta status:

	PautaWaiting = "waiting"
	PautaActive  = "active"
	PautaClosed  = "closed"

Outcomes:

	OutcomeYes     = "yes"
	OutcomeNo      = "no"
	OutcomeAbstain = "abstain"

Roles:

	RoleAdmin    = "admin"
	RoleVoter    = "voter"
	RoleObserver = "observer"

VotingTypes lists the chamber's enumerated procedural phases
(Turno único, 1º Turno, Quebra de interstício, 2º Turno, Redação).
*/
package models
