// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fault defines the recoverable error taxonomy of the core.

Four kinds cover every rejected operation:

  - Validation: malformed input (empty title, unknown outcome)
  - State: operation illegal in the current lifecycle state
  - Conflict: violates a uniqueness invariant (second open session,
    duplicate vote, deleting a voted pauta)
  - NotFound: referenced id absent

Handlers render faults through middleware.FaultResponse, which maps
kinds to HTTP statuses (400, 422, 409, 404) and puts the kind in the
ErrorResponse "error" field so clients can branch on it.
*/
package fault
