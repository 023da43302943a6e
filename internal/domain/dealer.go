package domain

import "fmt"

// DealerMustHit applies the fixed house rule: hit below 17, and hit a soft
// 17 when the table says so.
func DealerMustHit(h Hand, hitSoft17 bool) bool {
	best := h.Best()
	if best < DealerStandsOn {
		return true
	}
	return hitSoft17 && best == DealerStandsOn && h.Soft()
}

// PlayDealerToCompletion reveals the hole card and draws until the dealer
// must stand. Running out of cards is returned as an error; the hand is
// never silently cut short.
func PlayDealerToCompletion(hand Hand, shoe *Shoe, hitSoft17 bool) (Hand, error) {
	hand.Cards = append([]Card(nil), hand.Cards...)
	hand.Reveal()
	for DealerMustHit(hand, hitSoft17) {
		c, err := shoe.Draw()
		if err != nil {
			return hand, fmt.Errorf("dealer drawing card %d: %w", len(hand.Cards)+1, err)
		}
		hand.Cards = append(hand.Cards, c)
	}
	hand.Stood = !hand.Busted()
	return hand, nil
}
