// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

CreateSchema creates all tables with IF NOT EXISTS (idempotent):

	err := db.CreateSchema(dbConn)

# Tables

  - session: one sitting of the chamber (open/closed)
  - pauta: agenda items owned by a session (waiting/active/closed)
  - vote: one row per (pauta, voter) with outcome yes/no/abstain
  - viewer: presence registry for connected stream viewers

# Invariants in the store

Two invariants are enforced by constraints rather than handler logic,
so they hold under concurrent writers without locking:

  - at most one session row with status 'open' (partial unique index)
  - at most one vote per (pauta_id, voter_id) (primary key)

Handlers translate constraint violations into ConflictError responses.

The schema is written for PostgreSQL. The sqlite driver is wired for
local development; the partial index and BIGSERIAL column are the
PostgreSQL-specific pieces.
*/
package db
