// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/fault"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/views"
)

type ViewHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewViewHandler(db *sql.DB, cfg cliparse.Config) *ViewHandler {
	return &ViewHandler{db: db, cfg: cfg}
}

// AdminView handles GET /views/admin
func (h *ViewHandler) AdminView(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.cfg, models.RoleAdmin)
	if !ok {
		return
	}

	view, err := buildAdminView(h.db, id.VoterID)
	if err != nil {
		slog.Error("failed to build admin view", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// VoterView handles GET /views/voter
func (h *ViewHandler) VoterView(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.cfg, models.RoleVoter, models.RoleAdmin)
	if !ok {
		return
	}

	view, err := buildVoterView(h.db, id.VoterID)
	if err != nil {
		slog.Error("failed to build voter view", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// ObserverView handles GET /views/observer
// Defaults to the open session; ?session_id= selects a historical one.
func (h *ViewHandler) ObserverView(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleObserver, models.RoleVoter, models.RoleAdmin); !ok {
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	view, err := buildObserverView(h.db, sessionID)
	if err != nil {
		slog.Error("failed to build observer view", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if sessionID != "" && view.Session == nil {
		middleware.FaultResponse(w, fault.NotFound, "Session not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// OverlayView handles GET /views/overlay
// Identity-less: the broadcast overlay runs in OBS with no login.
func (h *ViewHandler) OverlayView(w http.ResponseWriter, r *http.Request) {
	view, err := buildOverlayView(h.db)
	if err != nil {
		slog.Error("failed to build overlay view", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// The build functions take a state snapshot (one read of session,
// pautas, viewers) and hand it to the pure projections in views. The
// stream handlers reuse them for every snapshot event.

func buildAdminView(db *sql.DB, adminID string) (views.AdminView, error) {
	session, pautas, err := loadLiveState(db)
	if err != nil {
		return views.AdminView{}, err
	}
	viewers, err := loadRecentViewers(db)
	if err != nil {
		return views.AdminView{}, err
	}
	return views.Admin(session, pautas, adminID, viewers), nil
}

func buildVoterView(db *sql.DB, voterID string) (views.VoterView, error) {
	session, pautas, err := loadLiveState(db)
	if err != nil {
		return views.VoterView{}, err
	}
	return views.Voter(session, pautas, voterID), nil
}

func buildObserverView(db *sql.DB, sessionID string) (views.ObserverView, error) {
	var session *models.Session
	var err error
	if sessionID == "" {
		session, err = loadOpenSession(db)
	} else {
		session, err = loadSession(db, sessionID)
	}
	if err != nil {
		return views.ObserverView{}, err
	}
	if session == nil {
		return views.Observer(nil, nil), nil
	}

	pautas, err := loadPautas(db, session.ID)
	if err != nil {
		return views.ObserverView{}, err
	}
	return views.Observer(session, pautas), nil
}

func buildOverlayView(db *sql.DB) (views.OverlayView, error) {
	session, pautas, err := loadLiveState(db)
	if err != nil {
		return views.OverlayView{}, err
	}
	return views.Overlay(session, pautas), nil
}

// loadLiveState reads the open session and its pautas, or (nil, nil)
// when no session is open.
func loadLiveState(db *sql.DB) (*models.Session, []models.Pauta, error) {
	session, err := loadOpenSession(db)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, nil
	}
	pautas, err := loadPautas(db, session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, pautas, nil
}
