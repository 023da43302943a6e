package advisor

import (
	"fmt"

	"blackjack/internal/domain"
)

// MimicDealer plays the player hand by the dealer's own rule. Used as a
// comparison baseline in simulations.
type MimicDealer struct{}

func (MimicDealer) Recommend(hand domain.Hand, _ domain.Card, flags Flags) Advice {
	if hand.Terminal() {
		return Advice{Action: Stand, Reason: "hand is complete"}
	}
	if domain.DealerMustHit(hand, flags.DealerHitsSoft17) {
		return Advice{Action: Hit, Reason: fmt.Sprintf("dealer rule hits %d", hand.Best())}
	}
	return Advice{Action: Stand, Reason: fmt.Sprintf("dealer rule stands on %d", hand.Best())}
}

// NeverBust only hits when one more card cannot bust the hand, and stands
// on soft 18 or better.
type NeverBust struct{}

func (NeverBust) Recommend(hand domain.Hand, _ domain.Card, _ Flags) Advice {
	if hand.Terminal() {
		return Advice{Action: Stand, Reason: "hand is complete"}
	}
	best := hand.Best()
	switch {
	case hand.Soft() && best < 18:
		return Advice{Action: Hit, Reason: fmt.Sprintf("soft %d cannot bust", best)}
	case !hand.Soft() && best <= 11:
		return Advice{Action: Hit, Reason: fmt.Sprintf("hard %d cannot bust", best)}
	}
	return Advice{Action: Stand, Reason: fmt.Sprintf("%d could bust", best)}
}
