// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import "github.com/dhpaiva/plenario/models"

// AdminView is the presiding panel: session state, every pauta with
// full tally detail, whether the presiding identity has voted on the
// active pauta, and who is watching.
type AdminView struct {
	Session        *models.Session `json:"session"`
	Pautas         []models.Pauta  `json:"pautas"`
	HasVotedActive bool            `json:"has_voted_active"`
	Viewers        []models.Viewer `json:"viewers"`
}

// VoterView is the ballot: the single active pauta (or none) and
// whether this voter has already voted on it.
type VoterView struct {
	SessionOpen bool          `json:"session_open"`
	Pauta       *models.Pauta `json:"pauta,omitempty"`
	HasVoted    bool          `json:"has_voted"`
}

// Counts is a read-only tally summary.
type Counts struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Abstain int `json:"abstain"`
	Total   int `json:"total"`
}

// ObserverPauta pairs a pauta with its counts so the tally list reads
// without walking the buckets.
type ObserverPauta struct {
	models.Pauta
	Counts Counts `json:"counts"`
}

// ObserverView is the read-only results panel over one session,
// live or historical.
type ObserverView struct {
	Session *models.Session `json:"session"`
	Pautas  []ObserverPauta `json:"pautas"`
}

// OverlayCard is one rendered vote on the broadcast overlay.
type OverlayCard struct {
	VoterLabel string `json:"voter_label"`
	Outcome    string `json:"outcome"`
}

// OverlayView feeds the OBS lower-third. Identity-less; Active false
// means the overlay renders nothing (transparent scene).
type OverlayView struct {
	Active     bool          `json:"active"`
	Title      string        `json:"title,omitempty"`
	Author     string        `json:"author,omitempty"`
	VotingType string        `json:"voting_type,omitempty"`
	YesCount   int           `json:"yes_count"`
	NoCount    int           `json:"no_count"`
	Cards      []OverlayCard `json:"cards"`
}

// Admin builds the presiding panel projection.
func Admin(session *models.Session, pautas []models.Pauta, adminID string, viewers []models.Viewer) AdminView {
	view := AdminView{Session: session, Pautas: pautas, Viewers: viewers}
	if active := activePauta(pautas); active != nil {
		view.HasVotedActive = active.Votes.Has(adminID)
	}
	return view
}

// Voter builds the ballot projection. With no open session or no
// active pauta the ballot shows its waiting state.
func Voter(session *models.Session, pautas []models.Pauta, voterID string) VoterView {
	if session == nil || session.Status != models.SessionOpen {
		return VoterView{}
	}
	view := VoterView{SessionOpen: true}
	if active := activePauta(pautas); active != nil {
		view.Pauta = active
		view.HasVoted = active.Votes.Has(voterID)
	}
	return view
}

// Observer builds the read-only tally projection for a session.
func Observer(session *models.Session, pautas []models.Pauta) ObserverView {
	view := ObserverView{Session: session, Pautas: make([]ObserverPauta, 0, len(pautas))}
	for _, p := range pautas {
		view.Pautas = append(view.Pautas, ObserverPauta{
			Pauta: p,
			Counts: Counts{
				Yes:     len(p.Votes.Yes),
				No:      len(p.Votes.No),
				Abstain: len(p.Votes.Abstain),
				Total:   p.Votes.Total(),
			},
		})
	}
	return view
}

// Overlay builds the broadcast feed from the active pauta, if any.
// The three buckets flatten into one card sequence (yes, no, abstain),
// each bucket in arrival order.
func Overlay(session *models.Session, pautas []models.Pauta) OverlayView {
	if session == nil || session.Status != models.SessionOpen {
		return OverlayView{}
	}
	active := activePauta(pautas)
	if active == nil {
		return OverlayView{}
	}

	view := OverlayView{
		Active:   true,
		Title:    active.Title,
		Author:   active.Author,
		YesCount: len(active.Votes.Yes),
		NoCount:  len(active.Votes.No),
		Cards:    make([]OverlayCard, 0, active.Votes.Total()),
	}
	if view.Author == "" {
		view.Author = "Mesa Diretora"
	}
	if active.VotingType != nil {
		view.VotingType = *active.VotingType
	}

	for _, v := range active.Votes.Yes {
		view.Cards = append(view.Cards, OverlayCard{VoterLabel: v.VoterLabel, Outcome: models.OutcomeYes})
	}
	for _, v := range active.Votes.No {
		view.Cards = append(view.Cards, OverlayCard{VoterLabel: v.VoterLabel, Outcome: models.OutcomeNo})
	}
	for _, v := range active.Votes.Abstain {
		view.Cards = append(view.Cards, OverlayCard{VoterLabel: v.VoterLabel, Outcome: models.OutcomeAbstain})
	}
	return view
}

// activePauta returns the first active pauta, or nil. The state
// machine admits one active pauta per session in practice; first-wins
// keeps the projection deterministic regardless.
func activePauta(pautas []models.Pauta) *models.Pauta {
	for i := range pautas {
		if pautas[i].Status == models.PautaActive {
			return &pautas[i]
		}
	}
	return nil
}
