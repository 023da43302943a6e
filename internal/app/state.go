package app

import (
	"blackjack/internal/advisor"
	"blackjack/internal/domain"
)

// TableState is the client-safe view of a table: the dealer's hole card
// stays hidden until it is turned over.
type TableState struct {
	TableID       string             `json:"table_id"`
	Phase         domain.Phase       `json:"phase"`
	Bankroll      float64            `json:"bankroll"`
	Rules         domain.GameRules   `json:"rules"`
	Limits        domain.TableLimits `json:"limits"`
	Round         *Round             `json:"round,omitempty"`
	Legal         []advisor.Action   `json:"legal,omitempty"`
	ShoeID        string             `json:"shoe_id"`
	ShoeRemaining int                `json:"shoe_remaining"`
	ShoeSize      int                `json:"shoe_size"`
	Seal          string             `json:"seal,omitempty"`
	Faulted       bool               `json:"faulted"`
}

// State snapshots the table.
func (t *Table) State() TableState {
	st := TableState{
		TableID:       t.ID,
		Phase:         t.machine.Current(),
		Bankroll:      t.bankroll,
		Rules:         t.rules,
		Limits:        t.limits,
		Legal:         t.LegalActions(),
		ShoeID:        t.shoe.ID,
		ShoeRemaining: t.shoe.Remaining(),
		ShoeSize:      t.shoe.Size(),
		Seal:          t.seal,
		Faulted:       t.faulted,
	}
	if t.round != nil {
		r := *t.round
		r.Hands = append([]domain.Hand(nil), r.Hands...)
		r.Dealer = maskHoleCards(r.Dealer)
		st.Round = &r
	}
	return st
}

func maskHoleCards(h domain.Hand) domain.Hand {
	cards := make([]domain.Card, len(h.Cards))
	for i, c := range h.Cards {
		if c.FaceUp {
			cards[i] = c
		}
	}
	h.Cards = cards
	return h
}
