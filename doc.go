// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Plenario API server.

Plenario runs live legislative voting sessions: the presiding role
opens a session, registers agenda items ("pautas"), puts each one up
for a yes/no/abstain vote, and every connected viewer — presiding
panel, voter ballot, observer tally, and the OBS broadcast overlay —
follows the tallies in real time over server-sent events.

# Starting the Server

The server requires environment variables or CLI flags for
configuration (a .env file is loaded if present):

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3319 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - IDENTITY_TOKEN_SALT (--identity-salt): secret shared with the
    identity service that signs viewer tokens

Optional settings:

  - PORT (-p): server port (default: 3319)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, pautas, voting, views, streams)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, fault mapping
  - models: request/response and domain types
  - fault: the recoverable error taxonomy
  - auth: identity token parsing and signing
  - notify: in-process change-notification hub feeding the SSE streams
  - views: pure role projections over session/pauta/tally state
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
