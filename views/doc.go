// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views builds the role-specific read projections.

Each projection is a pure function over a state snapshot (session,
pautas with tallies) — no I/O, no mutation, identical output for
identical input. The stream handlers recompute them on every change
notification; the view handlers compute them once per request.

  - Admin: session + all pautas with full tallies + whether the
    presiding identity voted on the active pauta + connected viewers
  - Voter: the single active pauta (or none) + has_voted
  - Observer: pautas of one session (live or historical) with counts
  - Overlay: broadcast feed from the active pauta; the three buckets
    flatten into one card list and a YES/NO scoreboard, and the view
    is inactive (renders nothing) without an active pauta

Role-to-projection dispatch is a fixed mapping over {admin, voter,
observer}; anything else is rejected by the handlers as no_valid_role.
*/
package views
