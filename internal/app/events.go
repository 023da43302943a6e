package app

import (
	"blackjack/internal/advisor"
	"blackjack/internal/domain"
)

// EventKind identifies emitted table events for Nakama dispatch.
type EventKind string

const (
	EventPhaseChanged      EventKind = "phase_changed"
	EventBetPlaced         EventKind = "bet_placed"
	EventCardsDealt        EventKind = "cards_dealt"
	EventInsuranceOffered  EventKind = "insurance_offered"
	EventInsuranceResolved EventKind = "insurance_resolved"
	EventCardDrawn         EventKind = "card_drawn"
	EventHandSplit         EventKind = "hand_split"
	EventHandSurrendered   EventKind = "hand_surrendered"
	EventDealerPlayed      EventKind = "dealer_played"
	EventRoundSettled      EventKind = "round_settled"
	EventRoundAborted      EventKind = "round_aborted"
	EventShoeShuffled      EventKind = "shoe_shuffled"
)

// Event is a table event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PhaseChangedPayload struct {
	From   domain.Phase `json:"from"`
	To     domain.Phase `json:"to"`
	Reason string       `json:"reason"`
}

type BetPlacedPayload struct {
	RoundID  string                         `json:"round_id"`
	Amount   float64                        `json:"amount"`
	SideBets map[domain.SideBetKind]float64 `json:"side_bets,omitempty"`
	Bankroll float64                        `json:"bankroll"`
}

type CardsDealtPayload struct {
	RoundID  string      `json:"round_id"`
	Hand     domain.Hand `json:"hand"`
	DealerUp domain.Card `json:"dealer_up"`
}

type InsuranceOfferedPayload struct {
	RoundID string  `json:"round_id"`
	Cost    float64 `json:"cost"`
}

type InsuranceResolvedPayload struct {
	RoundID string `json:"round_id"`
	Taken   bool   `json:"taken"`
}

type CardDrawnPayload struct {
	RoundID   string         `json:"round_id"`
	HandIndex int            `json:"hand_index"`
	Action    advisor.Action `json:"action"`
	Card      domain.Card    `json:"card"`
	Hand      domain.Hand    `json:"hand"`
}

type HandSplitPayload struct {
	RoundID   string        `json:"round_id"`
	HandIndex int           `json:"hand_index"`
	Hands     []domain.Hand `json:"hands"`
}

type HandSurrenderedPayload struct {
	RoundID   string `json:"round_id"`
	HandIndex int    `json:"hand_index"`
}

type DealerPlayedPayload struct {
	RoundID string      `json:"round_id"`
	Hand    domain.Hand `json:"hand"`
}

type RoundSettledPayload struct {
	Summary RoundSummary `json:"summary"`
}

type RoundAbortedPayload struct {
	RoundID string  `json:"round_id"`
	Reason  string  `json:"reason"`
	Refund  float64 `json:"refund"`
}

type ShoeShuffledPayload struct {
	ShoeID       string `json:"shoe_id"`
	Seal         string `json:"seal,omitempty"`
	PreviousSalt string `json:"previous_salt,omitempty"`
	Remaining    int    `json:"remaining"`
}
