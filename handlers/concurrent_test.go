// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/lib/pq"

	"github.com/dhpaiva/plenario/models"
	"github.com/dhpaiva/plenario/notify"
	"github.com/dhpaiva/plenario/testutil"
)

// TestConcurrentVoteCasts verifies that simultaneous casts from
// distinct voters all land without corruption or duplication.
func TestConcurrentVoteCasts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)

	numVoters := 20
	outcomes := []string{models.OutcomeYes, models.OutcomeNo, models.OutcomeAbstain}

	// Mint all tokens up front; the goroutines only fire requests
	headers := make([]map[string]string, numVoters)
	for i := 0; i < numVoters; i++ {
		voterID := fmt.Sprintf("voter-%d", i)
		label := fmt.Sprintf("vereador%d@camara.gov.br", i)
		headers[i] = tokenHeaders(t, cfg, voterID, label, models.RoleVoter)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/votes",
				models.CastVoteRequest{Outcome: outcomes[idx%3]}, headers[idx])
			req.SetPathValue("id", pautaID)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful casts, got %d", numVoters, successCount.Load())
	}

	var voteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE pauta_id = $1", pautaID).Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != numVoters {
		t.Errorf("Expected %d votes in database, got %d", numVoters, voteCount)
	}

	var uniqueVoters int
	if err := db.QueryRow("SELECT COUNT(DISTINCT voter_id) FROM vote WHERE pauta_id = $1", pautaID).Scan(&uniqueVoters); err != nil {
		t.Fatalf("Failed to count unique voters: %v", err)
	}
	if uniqueVoters != numVoters {
		t.Errorf("Expected %d unique voters, got %d (possible duplicates)", numVoters, uniqueVoters)
	}
}

// TestConcurrentSameVoterDifferentOutcomes verifies that one voter
// racing two different outcomes gets exactly one vote recorded.
func TestConcurrentSameVoterDifferentOutcomes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg, notify.NewHub())

	sessionID := testutil.CreateTestSession(t, db, models.SessionOpen)
	pautaID := testutil.CreateTestPauta(t, db, sessionID, models.PautaActive)

	headers := tokenHeaders(t, cfg, "voter-racer", "racer@camara.gov.br", models.RoleVoter)

	var created, conflicted atomic.Int32
	var wg sync.WaitGroup

	for _, outcome := range []string{models.OutcomeYes, models.OutcomeNo} {
		wg.Add(1)
		go func(outcome string) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/pautas/"+pautaID+"/votes",
				models.CastVoteRequest{Outcome: outcome}, headers)
			req.SetPathValue("id", pautaID)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}(outcome)
	}

	wg.Wait()

	if created.Load() != 1 || conflicted.Load() != 1 {
		t.Errorf("Expected exactly one success and one conflict, got created=%d conflicted=%d",
			created.Load(), conflicted.Load())
	}

	var voteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE pauta_id = $1 AND voter_id = 'voter-racer'", pautaID).Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 1 {
		t.Errorf("Expected exactly 1 vote, got %d", voteCount)
	}
}

// TestConcurrentSessionOpens verifies that when several admins race to
// open a session, exactly one session ends up open.
func TestConcurrentSessionOpens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg, notify.NewHub())

	numAttempts := 8
	headers := adminHeaders(t, cfg)

	var created, conflicted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/sessions",
				models.OpenSessionRequest{Name: fmt.Sprintf("Sessão %d", idx)}, headers)
			w := httptest.NewRecorder()

			handler.OpenSession(w, req)
			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 session created, got %d", created.Load())
	}
	if int(created.Load()+conflicted.Load()) != numAttempts {
		t.Errorf("Expected %d total responses, got created=%d conflicted=%d",
			numAttempts, created.Load(), conflicted.Load())
	}

	var openCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM session WHERE status = 'open'").Scan(&openCount); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if openCount != 1 {
		t.Errorf("Expected exactly 1 open session, got %d", openCount)
	}
}
