package advisor

import (
	"fmt"

	"blackjack/internal/domain"
)

// BasicStrategy plays the published multi-deck chart: pairs first, then
// soft totals, then hard totals.
type BasicStrategy struct{}

func (BasicStrategy) Recommend(hand domain.Hand, dealerUp domain.Card, flags Flags) Advice {
	flags = mask(hand, flags)
	if hand.Terminal() && !flags.CanSplit {
		return Advice{Action: Stand, Reason: "hand is complete"}
	}
	up := dealerUp.Points()
	col := up - 2
	tables := standSoft17Charts
	if flags.DealerHitsSoft17 {
		tables = hitSoft17Charts
	}

	// 1. Pairs.
	if flags.CanSplit {
		pairValue := hand.Cards[0].Points()
		if r, ok := tables.pairs[pairValue]; ok {
			switch r[col] {
			case cSplit:
				return Advice{Action: Split, Reason: fmt.Sprintf("always split %ss vs %d", hand.Cards[0].Rank, up)}
			case cSplitIfDAS:
				if flags.DoubleAfterSplit {
					return Advice{Action: Split, Reason: fmt.Sprintf("split %ss vs %d with double after split", hand.Cards[0].Rank, up)}
				}
			}
		}
	}

	best := hand.Best()

	// 2. Soft totals.
	if hand.Soft() {
		if best >= domain.Blackjack {
			return Advice{Action: Stand, Reason: "soft 21"}
		}
		total := max(12, min(20, best))
		return resolve(tables.soft[total][col], flags, fmt.Sprintf("soft %d vs %d", best, up))
	}

	// 3. Hard totals.
	total := max(8, min(17, best))
	return resolve(tables.hard[total][col], flags, fmt.Sprintf("hard %d vs %d", best, up))
}

func resolve(c code, flags Flags, reason string) Advice {
	switch c {
	case cStand:
		return Advice{Action: Stand, Reason: reason}
	case cDoubleOrHit:
		if flags.CanDouble {
			return Advice{Action: Double, Reason: reason}
		}
		return Advice{Action: Hit, Reason: reason + ", double not allowed"}
	case cDoubleOrStand:
		if flags.CanDouble {
			return Advice{Action: Double, Reason: reason}
		}
		return Advice{Action: Stand, Reason: reason + ", double not allowed"}
	case cSurrenderOrHit:
		if flags.CanSurrender {
			return Advice{Action: Surrender, Reason: reason}
		}
		return Advice{Action: Hit, Reason: reason + ", surrender not allowed"}
	case cSurrenderOrStand:
		if flags.CanSurrender {
			return Advice{Action: Surrender, Reason: reason}
		}
		return Advice{Action: Stand, Reason: reason + ", surrender not allowed"}
	default:
		return Advice{Action: Hit, Reason: reason}
	}
}

var basic BasicStrategy

// GetRecommendedAction is the basic-strategy action for hand against the
// dealer up-card.
func GetRecommendedAction(hand domain.Hand, dealerUp domain.Card, flags Flags) Action {
	return basic.Recommend(hand, dealerUp, flags).Action
}
