// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/fault"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *notify.Hub
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, hub: hub}
}

// CastVote handles POST /pautas/{id}/votes
// The cast is a single insert against the (pauta_id, voter_id) primary
// key, so two concurrent casts by one voter cannot both land — even
// with different outcomes. The loser surfaces as a conflict.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.cfg, models.RoleVoter, models.RoleAdmin)
	if !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.FaultResponse(w, fault.Validation, "Invalid JSON")
		return
	}

	if !models.ValidOutcome(req.Outcome) {
		middleware.FaultResponse(w, fault.Validation, "outcome must be yes, no, or abstain")
		return
	}

	var pautaStatus, sessionStatus string
	err := h.db.QueryRow(`
		SELECT p.status, s.status
		FROM pauta p
		JOIN session s ON p.session_id = s.id
		WHERE p.id = $1
	`, pautaID).Scan(&pautaStatus, &sessionStatus)

	if err == sql.ErrNoRows {
		middleware.FaultResponse(w, fault.NotFound, "Pauta not found")
		return
	}
	if err != nil {
		slog.Error("failed to query pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if sessionStatus != models.SessionOpen {
		middleware.FaultResponse(w, fault.State, "Session is not open")
		return
	}
	if pautaStatus != models.PautaActive {
		middleware.FaultResponse(w, fault.State, "Voting is not open on this pauta")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO vote (pauta_id, voter_id, voter_label, outcome, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pautaID, id.VoterID, id.Label, req.Outcome, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.FaultResponse(w, fault.Conflict, "Vote already recorded for this voter")
			return
		}
		slog.Error("failed to insert vote", "error", err, "pauta_id", pautaID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "pauta_id", pautaID, "voter_id", id.VoterID, "outcome", req.Outcome)
	h.hub.Publish(notify.TopicPautas)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		PautaID: pautaID,
		Outcome: req.Outcome,
		Message: "Vote recorded",
	})
}
