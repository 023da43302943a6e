package advisor

import "blackjack/internal/domain"

// Action is a player decision.
type Action string

const (
	Hit       Action = "hit"
	Stand     Action = "stand"
	Double    Action = "double"
	Split     Action = "split"
	Surrender Action = "surrender"
)

// Flags says which optional actions are legal for the hand right now and
// which table rules shift the chart.
type Flags struct {
	CanDouble        bool `json:"can_double"`
	CanSplit         bool `json:"can_split"`
	CanSurrender     bool `json:"can_surrender"`
	DoubleAfterSplit bool `json:"double_after_split"`
	DealerHitsSoft17 bool `json:"dealer_hits_soft_17"`
}

// Advice is the recommended action and a short reason for display.
type Advice struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Advisor is the interface that every playing strategy must implement.
// Implementations are pure and safe for concurrent use.
type Advisor interface {
	Recommend(hand domain.Hand, dealerUp domain.Card, flags Flags) Advice
}

// mask drops options the hand's shape can never allow, whatever the caller
// claims.
func mask(hand domain.Hand, flags Flags) Flags {
	two := len(hand.Cards) == 2
	flags.CanDouble = flags.CanDouble && two && (!hand.Split || flags.DoubleAfterSplit)
	flags.CanSplit = flags.CanSplit && hand.Pair()
	flags.CanSurrender = flags.CanSurrender && two && !hand.Split
	return flags
}
