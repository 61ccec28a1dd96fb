// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	_ "github.com/lib/pq"

	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
	"github.com/dhpaiva/plenario/testutil"
)

func TestCreatePauta(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	closedSessionID := testutil.CreateTestSession(t, db, models.SessionClosed)

	tests := []struct {
		name           string
		sessionID      string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:      "valid pauta",
			sessionID: sessionID,
			body: models.CreatePautaRequest{
				Title:       "Projeto de Lei 042/2025",
				Author:      "Ver. Silva",
				Description: "Dispõe sobre a iluminação pública",
			},
			headers:        adminHeaders(t, cfg),
			expectedStatus: 201,
		},
		{
			name:           "empty title",
			sessionID:      sessionID,
			body:           models.CreatePautaRequest{Title: "   "},
			headers:        adminHeaders(t, cfg),
			expectedStatus: 400,
		},
		{
			name:           "closed session",
			sessionID:      closedSessionID,
			body:           models.CreatePautaRequest{Title: "Tarde demais"},
			headers:        adminHeaders(t, cfg),
			expectedStatus: 422,
		},
		{
			name:           "unknown session",
			sessionID:      "nope",
			body:           models.CreatePautaRequest{Title: "Sem sessão"},
			headers:        adminHeaders(t, cfg),
			expectedStatus: 404,
		},
		{
			name:           "voter role rejected",
			sessionID:      sessionID,
			body:           models.CreatePautaRequest{Title: "Golpe"},
			headers:        tokenHeaders(t, cfg, "voter-1", "v@camara.gov.br", models.RoleVoter),
			expectedStatus: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/sessions/"+tt.sessionID+"/pautas", tt.body, tt.headers)
			req.SetPathValue("id", tt.sessionID)
			w := httptest.NewRecorder()

			handler.CreatePauta(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == 201 {
				var pauta models.Pauta
				testutil.AssertJSON(t, w, &pauta)
				if pauta.Status != models.PautaWaiting {
					t.Errorf("Expected waiting status, got %s", pauta.Status)
				}
				if pauta.Votes.Total() != 0 {
					t.Errorf("Expected empty tally, got %d votes", pauta.Votes.Total())
				}
			}
		})
	}
}

func TestUpdatePauta(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)

	newTitle := "Projeto de Lei 001/2025 (emendado)"
	req := testutil.MakeRequest("PATCH", "/pautas/"+pautaID, models.UpdatePautaRequest{Title: &newTitle}, adminHeaders(t, cfg))
	req.SetPathValue("id", pautaID)
	w := httptest.NewRecorder()

	handler.UpdatePauta(w, req)
	testutil.AssertStatus(t, w, 200)

	var pauta models.Pauta
	testutil.AssertJSON(t, w, &pauta)
	if pauta.Title != newTitle {
		t.Errorf("Expected updated title, got %q", pauta.Title)
	}
	// Fields not in the request stay as they were
	if pauta.Author != "Ver. Teste" {
		t.Errorf("Author should be unchanged, got %q", pauta.Author)
	}
}

func TestUpdatePautaValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)

	empty := ""
	req := testutil.MakeRequest("PATCH", "/pautas/"+pautaID, models.UpdatePautaRequest{Title: &empty}, adminHeaders(t, cfg))
	req.SetPathValue("id", pautaID)
	w := httptest.NewRecorder()

	handler.UpdatePauta(w, req)
	testutil.AssertStatus(t, w, 400)

	title := "x"
	req = testutil.MakeRequest("PATCH", "/pautas/nope", models.UpdatePautaRequest{Title: &title}, adminHeaders(t, cfg))
	req.SetPathValue("id", "nope")
	w = httptest.NewRecorder()

	handler.UpdatePauta(w, req)
	testutil.AssertStatus(t, w, 404)
}

func TestDeletePauta(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)

	t.Run("waiting pauta without votes", func(t *testing.T) {
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)

		req := testutil.MakeRequest("DELETE", "/pautas/"+pautaID, nil, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.DeletePauta(w, req)
		testutil.AssertStatus(t, w, 204)

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM pauta WHERE id = $1", pautaID).Scan(&count); err != nil {
			t.Fatalf("Failed to count pautas: %v", err)
		}
		if count != 0 {
			t.Error("Pauta should be deleted")
		}
	})

	t.Run("pauta with votes is a conflict", func(t *testing.T) {
		// Votes exist, so the vote check wins over the status check
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)
		testutil.CastTestVote(t, db, pautaID, "voter-1", "a@camara.gov.br", models.OutcomeYes)

		req := testutil.MakeRequest("DELETE", "/pautas/"+pautaID, nil, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.DeletePauta(w, req)
		testutil.AssertStatus(t, w, 409)

		var errResp models.ErrorResponse
		testutil.AssertJSON(t, w, &errResp)
		if errResp.Error != "conflict_error" {
			t.Errorf("Expected conflict_error, got %q", errResp.Error)
		}
	})

	t.Run("active pauta without votes is a state error", func(t *testing.T) {
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)

		req := testutil.MakeRequest("DELETE", "/pautas/"+pautaID, nil, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.DeletePauta(w, req)
		testutil.AssertStatus(t, w, 422)
	})
}

func TestStartVoting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)

	t.Run("waiting to active", func(t *testing.T) {
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)

		req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/start",
			models.StartVotingRequest{VotingType: "1º Turno"}, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)
		testutil.AssertStatus(t, w, 200)

		var pauta models.Pauta
		testutil.AssertJSON(t, w, &pauta)
		if pauta.Status != models.PautaActive {
			t.Errorf("Expected active, got %s", pauta.Status)
		}
		if pauta.VotingType == nil || *pauta.VotingType != "1º Turno" {
			t.Errorf("Expected voting type recorded, got %v", pauta.VotingType)
		}
	})

	t.Run("unknown voting type", func(t *testing.T) {
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)

		req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/start",
			models.StartVotingRequest{VotingType: "Aclamação"}, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)
		testutil.AssertStatus(t, w, 400)
	})

	t.Run("already active", func(t *testing.T) {
		pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)

		req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/start",
			models.StartVotingRequest{VotingType: "Turno único"}, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)
		testutil.AssertStatus(t, w, 422)
	})

	t.Run("closed session", func(t *testing.T) {
		closedSessionID := testutil.CreateTestSession(t, db, models.SessionClosed)
		pautaID := testutil.CreateTestPauta(t, db, closedSessionID, models.PautaWaiting)

		req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/start",
			models.StartVotingRequest{VotingType: "Turno único"}, adminHeaders(t, cfg))
		req.SetPathValue("id", pautaID)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)
		testutil.AssertStatus(t, w, 422)
	})
}

func TestCloseVoting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)

	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)
	req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/close", nil, adminHeaders(t, cfg))
	req.SetPathValue("id", pautaID)
	w := httptest.NewRecorder()

	handler.CloseVoting(w, req)
	testutil.AssertStatus(t, w, 200)

	var pauta models.Pauta
	testutil.AssertJSON(t, w, &pauta)
	if pauta.Status != models.PautaClosed {
		t.Errorf("Expected closed, got %s", pauta.Status)
	}

	// Waiting pautas cannot skip straight to closed
	waitingID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)
	req = testutil.MakeRequest("POST", "/pautas/"+waitingID+"/close", nil, adminHeaders(t, cfg))
	req.SetPathValue("id", waitingID)
	w = httptest.NewRecorder()

	handler.CloseVoting(w, req)
	testutil.AssertStatus(t, w, 422)
}

func TestReopenVoting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPautaHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaClosed)
	testutil.CastTestVote(t, db, pautaID, "voter-1", "a@camara.gov.br", models.OutcomeYes)
	testutil.CastTestVote(t, db, pautaID, "voter-2", "b@camara.gov.br", models.OutcomeNo)

	req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/reopen", nil, adminHeaders(t, cfg))
	req.SetPathValue("id", pautaID)
	w := httptest.NewRecorder()

	handler.ReopenVoting(w, req)
	testutil.AssertStatus(t, w, 200)

	var pauta models.Pauta
	testutil.AssertJSON(t, w, &pauta)
	if pauta.Status != models.PautaActive {
		t.Errorf("Expected active, got %s", pauta.Status)
	}
	// The tally survives a reopen
	if pauta.Votes.Total() != 2 {
		t.Errorf("Expected 2 votes after reopen, got %d", pauta.Votes.Total())
	}

	// Waiting pautas cannot reopen
	waitingID := testutil.CreateTestPauta(t, db, sessionID, models.PautaWaiting)
	req = testutil.MakeRequest("POST", "/pautas/"+waitingID+"/reopen", nil, adminHeaders(t, cfg))
	req.SetPathValue("id", waitingID)
	w = httptest.NewRecorder()

	handler.ReopenVoting(w, req)
	testutil.AssertStatus(t, w, 422)
}
