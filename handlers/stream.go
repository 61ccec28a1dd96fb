// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhpaiva/plenario/auth"
	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
)

// heartbeatInterval paces SSE keepalive comments and presence
// refreshes while no state changes arrive.
const heartbeatInterval = 30 * time.Second

type StreamHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *notify.Hub
}

func NewStreamHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub) *StreamHandler {
	return &StreamHandler{db: db, cfg: cfg, hub: hub}
}

// Stream handles GET /stream/{role} for admin, voter, and observer.
// Emits the role's full projection as a `snapshot` event on connect
// and again after every change notification. Notifications coalesce;
// each snapshot is a fresh read of current state, so a client can
// always discard everything but the latest event.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")

	var id auth.Identity
	var ok bool
	switch role {
	case models.RoleAdmin:
		id, ok = requireRole(w, r, h.cfg, models.RoleAdmin)
	case models.RoleVoter:
		id, ok = requireRole(w, r, h.cfg, models.RoleVoter, models.RoleAdmin)
	case models.RoleObserver:
		id, ok = requireRole(w, r, h.cfg, models.RoleObserver, models.RoleVoter, models.RoleAdmin)
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown stream")
		return
	}
	if !ok {
		return
	}

	if err := UpsertViewer(h.db, id); err != nil {
		// Presence is best-effort; the stream itself still works.
		slog.Warn("failed to record viewer presence", "error", err, "voter_id", id.VoterID)
	}

	h.serve(w, r, func() (interface{}, error) {
		switch role {
		case models.RoleAdmin:
			return buildAdminView(h.db, id.VoterID)
		case models.RoleVoter:
			return buildVoterView(h.db, id.VoterID)
		default:
			return buildObserverView(h.db, "")
		}
	}, func() {
		TouchViewer(h.db, id.VoterID)
	})

	slog.Info("stream closed", "role", role, "voter_id", id.VoterID)
}

// StreamOverlay handles GET /stream/overlay
// Identity-less, like the overlay view: OBS connects with no token and
// leaves no presence record.
func (h *StreamHandler) StreamOverlay(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func() (interface{}, error) {
		return buildOverlayView(h.db)
	}, nil)
}

// serve runs the SSE loop: initial snapshot, then one snapshot per
// hub signal, until the client goes away. touch, when set, refreshes
// presence alongside each write.
func (h *StreamHandler) serve(w http.ResponseWriter, r *http.Request, build func() (interface{}, error), touch func()) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sub := h.hub.Subscribe(notify.TopicSessions, notify.TopicPautas)
	defer sub.Cancel()

	send := func() bool {
		view, err := build()
		if err != nil {
			slog.Error("failed to build stream snapshot", "error", err)
			return false
		}
		data, err := json.Marshal(view)
		if err != nil {
			slog.Error("failed to marshal stream snapshot", "error", err)
			return false
		}
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
		flusher.Flush()
		if touch != nil {
			touch()
		}
		return true
	}

	if !send() {
		return
	}

	ctx := r.Context()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C:
			if !send() {
				return
			}
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
			if touch != nil {
				touch()
			}
		}
	}
}
