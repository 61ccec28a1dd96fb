// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/fault"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
)

type PautaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *notify.Hub
}

func NewPautaHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub) *PautaHandler {
	return &PautaHandler{db: db, cfg: cfg, hub: hub}
}

// CreatePauta handles POST /sessions/{id}/pautas
func (h *PautaHandler) CreatePauta(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.FaultResponse(w, fault.Validation, "session id is required")
		return
	}

	var req models.CreatePautaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.FaultResponse(w, fault.Validation, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		middleware.FaultResponse(w, fault.Validation, "title is required")
		return
	}

	session, err := loadSession(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if session == nil {
		middleware.FaultResponse(w, fault.NotFound, "Session not found")
		return
	}
	if session.Status != models.SessionOpen {
		middleware.FaultResponse(w, fault.State, "Session is not open")
		return
	}

	pautaID := uuid.NewString()
	createdAt := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO pauta (id, session_id, title, author, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pautaID, sessionID, req.Title, req.Author, req.Description, models.PautaWaiting, createdAt)

	if err != nil {
		slog.Error("failed to insert pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create pauta")
		return
	}

	slog.Info("pauta created", "pauta_id", pautaID, "session_id", sessionID, "title", req.Title)
	h.hub.Publish(notify.TopicPautas)

	middleware.JSONResponse(w, http.StatusCreated, models.Pauta{
		ID:          pautaID,
		SessionID:   sessionID,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Status:      models.PautaWaiting,
		CreatedAt:   createdAt,
		Votes:       models.Tally{Yes: []models.Vote{}, No: []models.Vote{}, Abstain: []models.Vote{}},
	})
}

// UpdatePauta handles PATCH /pautas/{id}
// Nil fields in the request leave the stored value unchanged. Edits
// are allowed in any status; the tally is untouched.
func (h *PautaHandler) UpdatePauta(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	var req models.UpdatePautaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.FaultResponse(w, fault.Validation, "Invalid JSON")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		middleware.FaultResponse(w, fault.Validation, "title cannot be empty")
		return
	}

	pauta, err := loadPauta(h.db, pautaID)
	if err != nil {
		slog.Error("failed to query pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if pauta == nil {
		middleware.FaultResponse(w, fault.NotFound, "Pauta not found")
		return
	}

	if req.Title != nil {
		pauta.Title = *req.Title
	}
	if req.Author != nil {
		pauta.Author = *req.Author
	}
	if req.Description != nil {
		pauta.Description = *req.Description
	}

	_, err = h.db.Exec(`
		UPDATE pauta SET title = $1, author = $2, description = $3 WHERE id = $4
	`, pauta.Title, pauta.Author, pauta.Description, pautaID)
	if err != nil {
		slog.Error("failed to update pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update pauta")
		return
	}

	slog.Info("pauta updated", "pauta_id", pautaID)
	h.hub.Publish(notify.TopicPautas)

	middleware.JSONResponse(w, http.StatusOK, pauta)
}

// DeletePauta handles DELETE /pautas/{id}
// A pauta with any recorded vote is an audit record and cannot be
// deleted; the vote check runs before the status check so that case
// always reads as a conflict.
func (h *PautaHandler) DeletePauta(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	pauta, err := loadPauta(h.db, pautaID)
	if err != nil {
		slog.Error("failed to query pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if pauta == nil {
		middleware.FaultResponse(w, fault.NotFound, "Pauta not found")
		return
	}

	if pauta.Votes.Total() > 0 {
		middleware.FaultResponse(w, fault.Conflict, "Pauta has recorded votes")
		return
	}
	if pauta.Status != models.PautaWaiting {
		middleware.FaultResponse(w, fault.State, "Only waiting pautas can be deleted")
		return
	}

	_, err = h.db.Exec("DELETE FROM pauta WHERE id = $1", pautaID)
	if err != nil {
		slog.Error("failed to delete pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete pauta")
		return
	}

	slog.Info("pauta deleted", "pauta_id", pautaID)
	h.hub.Publish(notify.TopicPautas)

	w.WriteHeader(http.StatusNoContent)
}

// StartVoting handles POST /pautas/{id}/start
func (h *PautaHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	var req models.StartVotingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.FaultResponse(w, fault.Validation, "Invalid JSON")
		return
	}

	if !models.ValidVotingType(req.VotingType) {
		middleware.FaultResponse(w, fault.Validation, "unknown voting type")
		return
	}

	h.transition(w, r, pautaID, models.PautaWaiting, models.PautaActive, &req.VotingType)
}

// CloseVoting handles POST /pautas/{id}/close
func (h *PautaHandler) CloseVoting(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	h.transition(w, r, pautaID, models.PautaActive, models.PautaClosed, nil)
}

// ReopenVoting handles POST /pautas/{id}/reopen
// Reopening keeps the recorded tally; voters who already voted stay
// voted.
func (h *PautaHandler) ReopenVoting(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	pautaID := r.PathValue("id")
	if pautaID == "" {
		middleware.FaultResponse(w, fault.Validation, "pauta id is required")
		return
	}

	h.transition(w, r, pautaID, models.PautaClosed, models.PautaActive, nil)
}

// transition moves a pauta from one status to another, rejecting any
// other starting status. Activating transitions also require the
// owning session to still be open. votingType, when non-nil, is
// recorded with the transition.
func (h *PautaHandler) transition(w http.ResponseWriter, r *http.Request, pautaID, from, to string, votingType *string) {
	var status, sessionStatus string
	err := h.db.QueryRow(`
		SELECT p.status, s.status
		FROM pauta p
		JOIN session s ON p.session_id = s.id
		WHERE p.id = $1
	`, pautaID).Scan(&status, &sessionStatus)

	if err == sql.ErrNoRows {
		middleware.FaultResponse(w, fault.NotFound, "Pauta not found")
		return
	}
	if err != nil {
		slog.Error("failed to query pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != from {
		middleware.FaultResponse(w, fault.State, "Pauta is not "+from)
		return
	}
	if to == models.PautaActive && sessionStatus != models.SessionOpen {
		middleware.FaultResponse(w, fault.State, "Session is not open")
		return
	}

	if votingType != nil {
		_, err = h.db.Exec(`UPDATE pauta SET status = $1, voting_type = $2 WHERE id = $3`,
			to, *votingType, pautaID)
	} else {
		_, err = h.db.Exec(`UPDATE pauta SET status = $1 WHERE id = $2`, to, pautaID)
	}
	if err != nil {
		slog.Error("failed to update pauta status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update pauta")
		return
	}

	slog.Info("pauta status changed", "pauta_id", pautaID, "from", from, "to", to)
	h.hub.Publish(notify.TopicPautas)

	pauta, err := loadPauta(h.db, pautaID)
	if err != nil || pauta == nil {
		slog.Error("failed to reload pauta", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pauta)
}
