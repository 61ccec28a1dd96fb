// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/dhpaiva/plenario/cliparse"
	"github.com/dhpaiva/plenario/handlers"
	"github.com/dhpaiva/plenario/middleware"
	"github.com/dhpaiva/plenario/notify"
)

func NewRouter(db *sql.DB, hub *notify.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg, hub)
	pautaHandler := handlers.NewPautaHandler(db, cfg, hub)
	votingHandler := handlers.NewVotingHandler(db, cfg, hub)
	viewHandler := handlers.NewViewHandler(db, cfg)
	streamHandler := handlers.NewStreamHandler(db, cfg, hub)
	viewerHandler := handlers.NewViewerHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle (admin operations)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.OpenSession))
	mux.HandleFunc("POST /sessions/{id}/close", middleware.WithLogging(sessionHandler.CloseSession))
	mux.HandleFunc("GET /sessions/current", middleware.WithLogging(sessionHandler.CurrentSession))
	mux.HandleFunc("GET /sessions", middleware.WithLogging(sessionHandler.ListSessions))
	mux.HandleFunc("GET /sessions/{id}/pautas", middleware.WithLogging(sessionHandler.SessionPautas))

	// Pauta management (admin operations)
	mux.HandleFunc("POST /sessions/{id}/pautas", middleware.WithLogging(pautaHandler.CreatePauta))
	mux.HandleFunc("PATCH /pautas/{id}", middleware.WithLogging(pautaHandler.UpdatePauta))
	mux.HandleFunc("DELETE /pautas/{id}", middleware.WithLogging(pautaHandler.DeletePauta))
	mux.HandleFunc("POST /pautas/{id}/start", middleware.WithLogging(pautaHandler.StartVoting))
	mux.HandleFunc("POST /pautas/{id}/close", middleware.WithLogging(pautaHandler.CloseVoting))
	mux.HandleFunc("POST /pautas/{id}/reopen", middleware.WithLogging(pautaHandler.ReopenVoting))

	// Vote ledger (voter or admin)
	mux.HandleFunc("POST /pautas/{id}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Read projections
	mux.HandleFunc("GET /views/admin", middleware.WithLogging(viewHandler.AdminView))
	mux.HandleFunc("GET /views/voter", middleware.WithLogging(viewHandler.VoterView))
	mux.HandleFunc("GET /views/observer", middleware.WithLogging(viewHandler.ObserverView))
	mux.HandleFunc("GET /views/overlay", middleware.WithLogging(viewHandler.OverlayView))

	// Live streams (no logging wrapper: long-lived connections)
	mux.HandleFunc("GET /stream/overlay", streamHandler.StreamOverlay)
	mux.HandleFunc("GET /stream/{role}", streamHandler.Stream)

	// Presence
	mux.HandleFunc("GET /viewers", middleware.WithLogging(viewerHandler.ListViewers))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plenario API v1"))
	})

	return mux
}
