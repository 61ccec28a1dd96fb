// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Session status constants
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Pauta status constants
const (
	PautaWaiting = "waiting"
	PautaActive  = "active"
	PautaClosed  = "closed"
)

// Vote outcome constants
const (
	OutcomeYes     = "yes"
	OutcomeNo      = "no"
	OutcomeAbstain = "abstain"
)

// Viewer roles resolved by the identity service
const (
	RoleAdmin    = "admin"
	RoleVoter    = "voter"
	RoleObserver = "observer"
)

// Voting types, fixed by chamber procedure. Set when a pauta goes active.
var VotingTypes = []string{
	"Turno único",
	"1º Turno",
	"Quebra de interstício",
	"2º Turno",
	"Redação",
}

// ValidVotingType reports whether t is one of the enumerated voting types.
func ValidVotingType(t string) bool {
	for _, vt := range VotingTypes {
		if vt == t {
			return true
		}
	}
	return false
}

// ValidOutcome reports whether o is yes, no, or abstain.
func ValidOutcome(o string) bool {
	return o == OutcomeYes || o == OutcomeNo || o == OutcomeAbstain
}

// Request types

type OpenSessionRequest struct {
	Name string `json:"name"`
}

type CreatePautaRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// Nil fields are left unchanged (PATCH semantics).
type UpdatePautaRequest struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
}

type StartVotingRequest struct {
	VotingType string `json:"voting_type"`
}

type CastVoteRequest struct {
	Outcome string `json:"outcome"`
}

// Response types

type CurrentSessionResponse struct {
	Session *Session `json:"session"`
}

type CastVoteResponse struct {
	PautaID string `json:"pauta_id"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type SessionPautasResponse struct {
	Session Session `json:"session"`
	Pautas  []Pauta `json:"pautas"`
}

type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

type ViewersResponse struct {
	Viewers []Viewer `json:"viewers"`
}

// Domain types

type Session struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

type Pauta struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	VotingType  *string   `json:"voting_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Votes       Tally     `json:"votes"`
}

// Vote is one recorded choice. VoterLabel is the display identity
// (email in practice); VoterID is the stable identity key.
type Vote struct {
	VoterID    string `json:"voter_id"`
	VoterLabel string `json:"voter_label"`
}

// Tally holds the three disjoint outcome buckets of a pauta, each in
// arrival order. A voter id appears in at most one bucket.
type Tally struct {
	Yes     []Vote `json:"yes"`
	No      []Vote `json:"no"`
	Abstain []Vote `json:"abstain"`
}

// Total returns the number of votes recorded across all buckets.
func (t Tally) Total() int {
	return len(t.Yes) + len(t.No) + len(t.Abstain)
}

// Has reports whether voterID already appears in any bucket.
func (t Tally) Has(voterID string) bool {
	for _, bucket := range [][]Vote{t.Yes, t.No, t.Abstain} {
		for _, v := range bucket {
			if v.VoterID == voterID {
				return true
			}
		}
	}
	return false
}

// Viewer is a presence record for a connected stream client.
type Viewer struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	Role        string    `json:"role"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
