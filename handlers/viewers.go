// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dhpaiva/plenario/auth"
	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/models"
)

// Viewers older than this are treated as disconnected.
const viewerRecentWindow = 5 * time.Minute

type ViewerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewViewerHandler(db *sql.DB, cfg cliparse.Config) *ViewerHandler {
	return &ViewerHandler{db: db, cfg: cfg}
}

// ListViewers handles GET /viewers
// Returns viewers seen within the recent window, for the presiding
// panel's "who is watching" list.
func (h *ViewerHandler) ListViewers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.cfg, models.RoleAdmin); !ok {
		return
	}

	viewers, err := loadRecentViewers(h.db)
	if err != nil {
		slog.Error("failed to query viewers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ViewersResponse{Viewers: viewers})
}

// UpsertViewer records stream presence for an identity. One row per
// voter id; a reconnect refreshes last_seen_at and may change role.
func UpsertViewer(db *sql.DB, id auth.Identity) error {
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO viewer (id, voter_id, role, connected_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (voter_id) DO UPDATE SET
			role = EXCLUDED.role,
			last_seen_at = EXCLUDED.last_seen_at
	`, uuid.NewString(), id.VoterID, id.Role, now)
	return err
}

// TouchViewer refreshes a viewer's last_seen_at.
func TouchViewer(db *sql.DB, voterID string) {
	_, err := db.Exec(`UPDATE viewer SET last_seen_at = $1 WHERE voter_id = $2`,
		time.Now(), voterID)
	if err != nil {
		slog.Error("failed to touch viewer", "error", err, "voter_id", voterID)
	}
}

func loadRecentViewers(db *sql.DB) ([]models.Viewer, error) {
	rows, err := db.Query(`
		SELECT id, voter_id, role, connected_at, last_seen_at
		FROM viewer
		WHERE last_seen_at > $1
		ORDER BY connected_at
	`, time.Now().Add(-viewerRecentWindow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	viewers := []models.Viewer{}
	for rows.Next() {
		var v models.Viewer
		if err := rows.Scan(&v.ID, &v.VoterID, &v.Role, &v.ConnectedAt, &v.LastSeenAt); err != nil {
			return nil, err
		}
		viewers = append(viewers, v)
	}
	return viewers, rows.Err()
}
