// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions (one sitting of the chamber; at most one open at a time)
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    opened_at TIMESTAMP NOT NULL DEFAULT NOW(),
    closed_at TIMESTAMP
);

-- The single-open-session invariant lives in the store, not in handler checks
CREATE UNIQUE INDEX IF NOT EXISTS idx_session_single_open ON session(status) WHERE status = 'open';
CREATE INDEX IF NOT EXISTS idx_session_status ON session(status);

-- Pautas (agenda items), owned by their session
CREATE TABLE IF NOT EXISTS pauta (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    author TEXT,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('waiting', 'active', 'closed')),
    voting_type TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pauta_session_id ON pauta(session_id);
CREATE INDEX IF NOT EXISTS idx_pauta_status ON pauta(session_id, status);

-- Votes: one row per (pauta, voter); the primary key IS the
-- at-most-one-vote invariant, so a cast is a single atomic insert.
-- seq preserves arrival order across all three outcome buckets.
CREATE TABLE IF NOT EXISTS vote (
    seq BIGSERIAL,
    pauta_id TEXT NOT NULL REFERENCES pauta(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    voter_label TEXT NOT NULL,
    outcome TEXT NOT NULL CHECK (outcome IN ('yes', 'no', 'abstain')),
    cast_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (pauta_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_pauta_seq ON vote(pauta_id, seq);

-- Viewers: presence registry fed by stream connections
CREATE TABLE IF NOT EXISTS viewer (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL,
    connected_at TIMESTAMP NOT NULL DEFAULT NOW(),
    last_seen_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_viewer_last_seen ON viewer(last_seen_at);
`
