package domain

import "sort"

// SideBetKind identifies a side wager.
type SideBetKind string

const (
	SideBetPerfectPairs SideBetKind = "perfect_pairs"
	SideBetTwentyOne3   SideBetKind = "21+3"
	SideBetLuckyLadies  SideBetKind = "lucky_ladies"
	SideBetInsurance    SideBetKind = "insurance"
)

// Side-bet tiers. Multipliers are paid "to one".
const (
	TierNone = ""

	TierPerfectPair = "perfect_pair"
	TierColoredPair = "colored_pair"
	TierMixedPair   = "mixed_pair"

	TierStraightFlush = "straight_flush"
	TierThreeOfAKind  = "three_of_a_kind"
	TierStraight      = "straight"
	TierFlush         = "flush"
	TierPair          = "pair"

	TierQueenHeartsDealerBlackjack = "queen_hearts_pair_dealer_blackjack"
	TierQueenHeartsPair            = "queen_hearts_pair"
	TierMatchedTwenty              = "matched_twenty"
	TierSuitedTwenty               = "suited_twenty"
	TierAnyTwenty                  = "any_twenty"

	TierInsurance = "dealer_blackjack"
)

var sideBetPaytable = map[string]float64{
	TierPerfectPair: 30,
	TierColoredPair: 10,
	TierMixedPair:   5,

	TierStraightFlush: 40,
	TierThreeOfAKind:  30,
	TierStraight:      10,
	TierFlush:         5,
	TierPair:          1,

	TierQueenHeartsDealerBlackjack: 1000,
	TierQueenHeartsPair:            200,
	TierMatchedTwenty:              25,
	TierSuitedTwenty:               10,
	TierAnyTwenty:                  4,

	TierInsurance: 2,
}

// SideBetOutcome is the tier a side bet hit and its odds.
type SideBetOutcome struct {
	Kind       SideBetKind `json:"kind"`
	Tier       string      `json:"tier"`
	Multiplier float64     `json:"multiplier"`
}

// Won reports whether any paying tier was hit.
func (o SideBetOutcome) Won() bool { return o.Tier != TierNone }

// Payout is the stake-inclusive return for amount.
func (o SideBetOutcome) Payout(amount float64) float64 {
	if !o.Won() {
		return 0
	}
	return amount * (o.Multiplier + 1)
}

func outcome(kind SideBetKind, tier string) SideBetOutcome {
	return SideBetOutcome{Kind: kind, Tier: tier, Multiplier: sideBetPaytable[tier]}
}

// SideBetContext carries everything a side bet may look at: the player's
// first two cards, the dealer up-card and whether the dealer has a natural.
type SideBetContext struct {
	PlayerCards     []Card
	DealerUp        Card
	DealerBlackjack bool
}

// SideBet evaluates one kind of side wager. Implementations are pure.
type SideBet interface {
	Kind() SideBetKind
	Evaluate(ctx SideBetContext) SideBetOutcome
}

type perfectPairs struct{}
type twentyOnePlusThree struct{}
type luckyLadies struct{}
type insurance struct{}

func (perfectPairs) Kind() SideBetKind       { return SideBetPerfectPairs }
func (twentyOnePlusThree) Kind() SideBetKind { return SideBetTwentyOne3 }
func (luckyLadies) Kind() SideBetKind        { return SideBetLuckyLadies }
func (insurance) Kind() SideBetKind          { return SideBetInsurance }

func (perfectPairs) Evaluate(ctx SideBetContext) SideBetOutcome {
	return EvaluatePerfectPairs(ctx.PlayerCards)
}

func (twentyOnePlusThree) Evaluate(ctx SideBetContext) SideBetOutcome {
	return EvaluateTwentyOnePlusThree(ctx.PlayerCards, ctx.DealerUp)
}

func (luckyLadies) Evaluate(ctx SideBetContext) SideBetOutcome {
	return EvaluateLuckyLadies(ctx.PlayerCards, ctx.DealerBlackjack)
}

func (insurance) Evaluate(ctx SideBetContext) SideBetOutcome {
	return EvaluateInsurance(ctx.DealerBlackjack)
}

var sideBets = map[SideBetKind]SideBet{
	SideBetPerfectPairs: perfectPairs{},
	SideBetTwentyOne3:   twentyOnePlusThree{},
	SideBetLuckyLadies:  luckyLadies{},
	SideBetInsurance:    insurance{},
}

// LookupSideBet returns the evaluator for kind.
func LookupSideBet(kind SideBetKind) (SideBet, bool) {
	sb, ok := sideBets[kind]
	return sb, ok
}

// SideBetKinds lists the supported side bets in a stable order.
func SideBetKinds() []SideBetKind {
	return []SideBetKind{SideBetPerfectPairs, SideBetTwentyOne3, SideBetLuckyLadies, SideBetInsurance}
}

// EvaluatePerfectPairs pays when the first two cards share a rank.
func EvaluatePerfectPairs(cards []Card) SideBetOutcome {
	if len(cards) < 2 || cards[0].Rank != cards[1].Rank {
		return outcome(SideBetPerfectPairs, TierNone)
	}
	a, b := cards[0], cards[1]
	switch {
	case a.Suit == b.Suit:
		return outcome(SideBetPerfectPairs, TierPerfectPair)
	case a.Suit.Red() == b.Suit.Red():
		return outcome(SideBetPerfectPairs, TierColoredPair)
	default:
		return outcome(SideBetPerfectPairs, TierMixedPair)
	}
}

// EvaluateTwentyOnePlusThree scores the player's two cards and the dealer
// up-card as a three-card poker hand.
func EvaluateTwentyOnePlusThree(cards []Card, up Card) SideBetOutcome {
	if len(cards) < 2 {
		return outcome(SideBetTwentyOne3, TierNone)
	}
	three := []Card{cards[0], cards[1], up}
	flush := three[0].Suit == three[1].Suit && three[1].Suit == three[2].Suit
	straight := isThreeCardStraight(three)
	ranks := map[Rank]int{}
	for _, c := range three {
		ranks[c.Rank]++
	}
	switch {
	case straight && flush:
		return outcome(SideBetTwentyOne3, TierStraightFlush)
	case len(ranks) == 1:
		return outcome(SideBetTwentyOne3, TierThreeOfAKind)
	case straight:
		return outcome(SideBetTwentyOne3, TierStraight)
	case flush:
		return outcome(SideBetTwentyOne3, TierFlush)
	case len(ranks) == 2:
		return outcome(SideBetTwentyOne3, TierPair)
	}
	return outcome(SideBetTwentyOne3, TierNone)
}

// isThreeCardStraight accepts A-2-3 and Q-K-A as well as plain runs.
func isThreeCardStraight(cards []Card) bool {
	r := []int{int(cards[0].Rank), int(cards[1].Rank), int(cards[2].Rank)}
	sort.Ints(r)
	if r[0] == int(Ace) && r[1] == int(Queen) && r[2] == int(King) {
		return true
	}
	return r[1] == r[0]+1 && r[2] == r[1]+1
}

// EvaluateLuckyLadies pays on a first-two-card total of 20, with the top
// tiers reserved for a pair of queens of hearts.
func EvaluateLuckyLadies(cards []Card, dealerBlackjack bool) SideBetOutcome {
	if len(cards) < 2 {
		return outcome(SideBetLuckyLadies, TierNone)
	}
	a, b := cards[0].Revealed(), cards[1].Revealed()
	if BestValue(CalculateValues([]Card{a, b})) != 20 {
		return outcome(SideBetLuckyLadies, TierNone)
	}
	queenHearts := func(c Card) bool { return c.Rank == Queen && c.Suit == Hearts }
	switch {
	case queenHearts(a) && queenHearts(b) && dealerBlackjack:
		return outcome(SideBetLuckyLadies, TierQueenHeartsDealerBlackjack)
	case queenHearts(a) && queenHearts(b):
		return outcome(SideBetLuckyLadies, TierQueenHeartsPair)
	case a.Rank == b.Rank && a.Suit == b.Suit:
		return outcome(SideBetLuckyLadies, TierMatchedTwenty)
	case a.Suit == b.Suit:
		return outcome(SideBetLuckyLadies, TierSuitedTwenty)
	default:
		return outcome(SideBetLuckyLadies, TierAnyTwenty)
	}
}

// EvaluateInsurance wins 2:1 exactly when the dealer holds a natural.
func EvaluateInsurance(dealerBlackjack bool) SideBetOutcome {
	if dealerBlackjack {
		return outcome(SideBetInsurance, TierInsurance)
	}
	return outcome(SideBetInsurance, TierNone)
}
