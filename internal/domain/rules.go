package domain

import "math"

// Supported blackjack payout ratios.
const (
	PayoutThreeToTwo = 1.5
	PayoutSixToFive  = 1.2
	PayoutEvenMoney  = 1.0
)

const (
	MinSplits = 1
	MaxSplits = 4
)

// GameRules is the rule set for a shoe. Validate it once with Normalize;
// it must not change while the shoe is in play.
type GameRules struct {
	Decks            int     `json:"decks"`
	DealerHitsSoft17 bool    `json:"dealer_hits_soft_17"`
	BlackjackPayout  float64 `json:"blackjack_payout"`
	DoubleAllowed    bool    `json:"double_allowed"`
	DoubleAfterSplit bool    `json:"double_after_split"`
	SurrenderAllowed bool    `json:"surrender_allowed"`
	InsuranceAllowed bool    `json:"insurance_allowed"`
	// MaxSplits is how many times a seat may split; the seat can hold
	// MaxSplits+1 hands.
	MaxSplits    int     `json:"max_splits"`
	ResplitAces  bool    `json:"resplit_aces"`
	HitSplitAces bool    `json:"hit_split_aces"`
	Penetration  float64 `json:"penetration"`
}

// DefaultRules is a common six-deck shoe game.
func DefaultRules() GameRules {
	return GameRules{
		Decks:            6,
		DealerHitsSoft17: false,
		BlackjackPayout:  PayoutThreeToTwo,
		DoubleAllowed:    true,
		DoubleAfterSplit: true,
		SurrenderAllowed: false,
		InsuranceAllowed: true,
		MaxSplits:        3,
		ResplitAces:      false,
		HitSplitAces:     false,
		Penetration:      DefaultPenetration,
	}
}

// Normalize clamps every field to its nearest legal value. Invalid input is
// never rejected.
func (r GameRules) Normalize() GameRules {
	r.Decks = ClampDecks(r.Decks)
	r.BlackjackPayout = nearestPayout(r.BlackjackPayout)
	r.MaxSplits = max(MinSplits, min(MaxSplits, r.MaxSplits))
	r.Penetration = clampUnit(r.Penetration)
	if !r.DoubleAllowed {
		r.DoubleAfterSplit = false
	}
	return r
}

func nearestPayout(p float64) float64 {
	best := PayoutThreeToTwo
	for _, candidate := range []float64{PayoutThreeToTwo, PayoutSixToFive, PayoutEvenMoney} {
		if math.Abs(p-candidate) < math.Abs(p-best) {
			best = candidate
		}
	}
	return best
}

// TableLimits bounds main and side wagers. Read-only during a round.
type TableLimits struct {
	MinBet     float64 `json:"min_bet"`
	MaxBet     float64 `json:"max_bet"`
	MinSideBet float64 `json:"min_side_bet"`
	MaxSideBet float64 `json:"max_side_bet"`
}

// DefaultLimits is a 5-500 table with 1-100 side bets.
func DefaultLimits() TableLimits {
	return TableLimits{MinBet: 5, MaxBet: 500, MinSideBet: 1, MaxSideBet: 100}
}

// Normalize keeps minimums positive and maximums at or above minimums.
func (l TableLimits) Normalize() TableLimits {
	if l.MinBet <= 0 {
		l.MinBet = 1
	}
	l.MaxBet = max(l.MaxBet, l.MinBet)
	if l.MinSideBet <= 0 {
		l.MinSideBet = 1
	}
	l.MaxSideBet = max(l.MaxSideBet, l.MinSideBet)
	return l
}

// Clamp fits a main wager into [MinBet, MaxBet].
func (l TableLimits) Clamp(amount float64) float64 {
	return max(l.MinBet, min(l.MaxBet, amount))
}
