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

	"github.com/dhpaiva/plenario/auth"
	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/fault"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *notify.Hub
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg, hub: hub}
}

// OpenSession handles POST /sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.cfg, models.RoleAdmin)
	if !ok {
		return
	}

	var req models.OpenSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.FaultResponse(w, fault.Validation, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Sessão Ordinária - " + time.Now().Format("02/01/2006")
	}

	session := models.Session{
		ID:       uuid.NewString(),
		Name:     name,
		Status:   models.SessionOpen,
		OpenedAt: time.Now(),
	}

	// The partial unique index on open sessions makes this insert the
	// arbiter: under concurrent opens exactly one succeeds.
	_, err := h.db.Exec(`
		INSERT INTO session (id, name, status, opened_at)
		VALUES ($1, $2, $3, $4)
	`, session.ID, session.Name, session.Status, session.OpenedAt)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.FaultResponse(w, fault.Conflict, "A session is already open")
			return
		}
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open session")
		return
	}

	slog.Info("session opened", "session_id", session.ID, "name", session.Name, "by", id.VoterID)
	h.hub.Publish(notify.TopicSessions)

	middleware.JSONResponse(w, http.StatusCreated, session)
}

// CloseSession handles POST /sessions/{id}/close
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.cfg, models.RoleAdmin)
	if !ok {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.FaultResponse(w, fault.Validation, "session id is required")
		return
	}

	var status string
	err := h.db.QueryRow("SELECT status FROM session WHERE id = $1", sessionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.FaultResponse(w, fault.NotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.SessionOpen {
		middleware.FaultResponse(w, fault.State, "Session is not open")
		return
	}

	closedAt := time.Now()
	_, err = h.db.Exec(`
		UPDATE session SET status = $1, closed_at = $2 WHERE id = $3
	`, models.SessionClosed, closedAt, sessionID)
	if err != nil {
		slog.Error("failed to close session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	slog.Info("session closed", "session_id", sessionID, "by", id.VoterID)

	// Closing the session also ends the ballot and overlay scenes.
	h.hub.Publish(notify.TopicSessions)
	h.hub.Publish(notify.TopicPautas)

	session, err := loadSession(h.db, sessionID)
	if err != nil {
		slog.Error("failed to reload session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}

// CurrentSession handles GET /sessions/current
// Returns the open session, or {"session": null} when none is open.
func (h *SessionHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := loadOpenSession(h.db)
	if err != nil {
		slog.Error("failed to query open session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CurrentSessionResponse{Session: session})
}

// ListSessions handles GET /sessions
// Filterable by ?status=closed for the session archive.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r, h.cfg); !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != models.SessionOpen && status != models.SessionClosed {
		middleware.FaultResponse(w, fault.Validation, "status must be open or closed")
		return
	}

	query := `
		SELECT id, name, status, opened_at, closed_at
		FROM session
		ORDER BY opened_at DESC
	`
	args := []interface{}{}
	if status != "" {
		query = `
			SELECT id, name, status, opened_at, closed_at
			FROM session
			WHERE status = $1
			ORDER BY opened_at DESC
		`
		args = append(args, status)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query sessions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.OpenedAt, &s.ClosedAt); err != nil {
			slog.Error("failed to scan session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		sessions = append(sessions, s)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}

// SessionPautas handles GET /sessions/{id}/pautas
// Works for live and closed sessions alike, so the archive reads
// through the same path as the live panels.
func (h *SessionHandler) SessionPautas(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r, h.cfg); !ok {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.FaultResponse(w, fault.Validation, "session id is required")
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

	pautas, err := loadPautas(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query pautas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionPautasResponse{
		Session: *session,
		Pautas:  pautas,
	})
}

// requireIdentity parses and validates the X-Identity-Token header,
// writing the error response itself when the token is missing or bad.
func requireIdentity(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (auth.Identity, bool) {
	token := r.Header.Get("X-Identity-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity-Token header required")
		return auth.Identity{}, false
	}

	id, err := auth.ParseIdentity(token, cfg.IdentityTokenSalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid identity token")
		return auth.Identity{}, false
	}
	return id, true
}

// requireRole validates the token and checks the identity holds one of
// the given roles. An identity with a role outside the known set is
// rejected as no_valid_role.
func requireRole(w http.ResponseWriter, r *http.Request, cfg cliparse.Config, roles ...string) (auth.Identity, bool) {
	id, ok := requireIdentity(w, r, cfg)
	if !ok {
		return auth.Identity{}, false
	}

	if !knownRole(id.Role) {
		middleware.JSONResponse(w, http.StatusForbidden, models.ErrorResponse{
			Error:   "no_valid_role",
			Message: "Identity role grants no access",
		})
		return auth.Identity{}, false
	}

	for _, role := range roles {
		if id.Role == role {
			return id, true
		}
	}

	middleware.ErrorResponse(w, http.StatusForbidden, "Insufficient role")
	return auth.Identity{}, false
}

func knownRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleVoter, models.RoleObserver:
		return true
	}
	return false
}

// isUniqueViolation matches constraint-violation errors from both
// supported drivers.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// loadOpenSession returns the open session, or nil when none is open.
func loadOpenSession(db *sql.DB) (*models.Session, error) {
	var s models.Session
	err := db.QueryRow(`
		SELECT id, name, status, opened_at, closed_at
		FROM session
		WHERE status = $1
	`, models.SessionOpen).Scan(&s.ID, &s.Name, &s.Status, &s.OpenedAt, &s.ClosedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// loadSession returns the session by ID, or nil if absent.
func loadSession(db *sql.DB, sessionID string) (*models.Session, error) {
	var s models.Session
	err := db.QueryRow(`
		SELECT id, name, status, opened_at, closed_at
		FROM session
		WHERE id = $1
	`, sessionID).Scan(&s.ID, &s.Name, &s.Status, &s.OpenedAt, &s.ClosedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// loadPautas returns a session's pautas in creation order, each with
// its tally buckets assembled in vote-arrival order.
func loadPautas(db *sql.DB, sessionID string) ([]models.Pauta, error) {
	rows, err := db.Query(`
		SELECT id, session_id, title, author, description, status, voting_type, created_at
		FROM pauta
		WHERE session_id = $1
		ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pautas := []models.Pauta{}
	index := map[string]int{}
	for rows.Next() {
		var p models.Pauta
		var author, description sql.NullString
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Title, &author, &description,
			&p.Status, &p.VotingType, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Author = author.String
		p.Description = description.String
		p.Votes = models.Tally{Yes: []models.Vote{}, No: []models.Vote{}, Abstain: []models.Vote{}}
		index[p.ID] = len(pautas)
		pautas = append(pautas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	voteRows, err := db.Query(`
		SELECT v.pauta_id, v.voter_id, v.voter_label, v.outcome
		FROM vote v
		JOIN pauta p ON v.pauta_id = p.id
		WHERE p.session_id = $1
		ORDER BY v.seq
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var pautaID, outcome string
		var vote models.Vote
		if err := voteRows.Scan(&pautaID, &vote.VoterID, &vote.VoterLabel, &outcome); err != nil {
			return nil, err
		}
		i, ok := index[pautaID]
		if !ok {
			continue
		}
		switch outcome {
		case models.OutcomeYes:
			pautas[i].Votes.Yes = append(pautas[i].Votes.Yes, vote)
		case models.OutcomeNo:
			pautas[i].Votes.No = append(pautas[i].Votes.No, vote)
		case models.OutcomeAbstain:
			pautas[i].Votes.Abstain = append(pautas[i].Votes.Abstain, vote)
		}
	}
	return pautas, voteRows.Err()
}

// loadPauta returns one pauta with its tally, or nil if absent.
func loadPauta(db *sql.DB, pautaID string) (*models.Pauta, error) {
	var p models.Pauta
	var author, description sql.NullString
	err := db.QueryRow(`
		SELECT id, session_id, title, author, description, status, voting_type, created_at
		FROM pauta
		WHERE id = $1
	`, pautaID).Scan(&p.ID, &p.SessionID, &p.Title, &author, &description,
		&p.Status, &p.VotingType, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Author = author.String
	p.Description = description.String
	p.Votes = models.Tally{Yes: []models.Vote{}, No: []models.Vote{}, Abstain: []models.Vote{}}

	rows, err := db.Query(`
		SELECT voter_id, voter_label, outcome
		FROM vote
		WHERE pauta_id = $1
		ORDER BY seq
	`, pautaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var vote models.Vote
		var outcome string
		if err := rows.Scan(&vote.VoterID, &vote.VoterLabel, &outcome); err != nil {
			return nil, err
		}
		switch outcome {
		case models.OutcomeYes:
			p.Votes.Yes = append(p.Votes.Yes, vote)
		case models.OutcomeNo:
			p.Votes.No = append(p.Votes.No, vote)
		case models.OutcomeAbstain:
			p.Votes.Abstain = append(p.Votes.Abstain, vote)
		}
	}
	return &p, rows.Err()
}
