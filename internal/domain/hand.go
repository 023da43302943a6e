package domain

import "sort"

const (
	Blackjack      = 21
	DealerStandsOn = 17
)

// CalculateValues returns the sorted set of totals the face-up cards can
// make. It starts from {0} and cross-adds every face-up card's values, so
// the result is never empty.
func CalculateValues(cards []Card) []int {
	values := map[int]struct{}{0: {}}
	for _, c := range cards {
		if !c.FaceUp {
			continue
		}
		next := make(map[int]struct{}, len(values)*2)
		for v := range values {
			for _, cv := range c.Values() {
				next[v+cv] = struct{}{}
			}
		}
		values = next
	}
	out := make([]int, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// BestValue is the highest total not over 21, or the lowest total when
// every total busts.
func BestValue(values []int) int {
	if len(values) == 0 {
		return 0
	}
	best := -1
	for _, v := range values {
		if v <= Blackjack && v > best {
			best = v
		}
	}
	if best >= 0 {
		return best
	}
	lowest := values[0]
	for _, v := range values[1:] {
		lowest = min(lowest, v)
	}
	return lowest
}

// IsSoft reports a face-up ace counted as 11 without busting: the hand has
// more than one distinct total and at least two of them do not bust. A+6+10
// ({17, 27}) is therefore hard.
func IsSoft(cards []Card) bool {
	hasAce := false
	for _, c := range cards {
		if c.FaceUp && c.Rank == Ace {
			hasAce = true
			break
		}
	}
	if !hasAce {
		return false
	}
	live := 0
	for _, v := range CalculateValues(cards) {
		if v <= Blackjack {
			live++
		}
	}
	return live > 1
}

// IsBlackjack reports exactly two face-up cards totalling 21.
func IsBlackjack(cards []Card) bool {
	if len(cards) != 2 || !cards[0].FaceUp || !cards[1].FaceUp {
		return false
	}
	return BestValue(CalculateValues(cards)) == Blackjack
}

// IsBusted reports whether every total exceeds 21.
func IsBusted(cards []Card) bool {
	for _, v := range CalculateValues(cards) {
		if v <= Blackjack {
			return false
		}
	}
	return true
}

// CanSplit reports exactly two face-up cards of equal rank.
func CanSplit(cards []Card) bool {
	return len(cards) == 2 && cards[0].FaceUp && cards[1].FaceUp && cards[0].Rank == cards[1].Rank
}

// Hand is a player or dealer hand together with the flags the table needs
// to decide which actions remain legal.
type Hand struct {
	Cards []Card `json:"cards"`

	Doubled             bool `json:"doubled"`
	Split               bool `json:"split"`
	SplitAces           bool `json:"split_aces"`
	RestrictedToOneCard bool `json:"restricted_to_one_card"`
	Stood               bool `json:"stood"`
	Surrendered         bool `json:"surrendered"`
}

// NewHand creates a hand holding a copy of cards.
func NewHand(cards ...Card) Hand {
	return Hand{Cards: append([]Card(nil), cards...)}
}

func (h Hand) Values() []int { return CalculateValues(h.Cards) }
func (h Hand) Best() int     { return BestValue(h.Values()) }
func (h Hand) Soft() bool    { return IsSoft(h.Cards) }
func (h Hand) Busted() bool  { return IsBusted(h.Cards) }
func (h Hand) Pair() bool    { return CanSplit(h.Cards) }

// Blackjack reports a natural. A two-card 21 made after a split is not one.
func (h Hand) Blackjack() bool {
	return !h.Split && IsBlackjack(h.Cards)
}

// Terminal reports whether the hand can take no further action.
func (h Hand) Terminal() bool {
	if h.Stood || h.Surrendered || h.Doubled || h.Busted() {
		return true
	}
	if h.RestrictedToOneCard && len(h.Cards) >= 2 {
		return true
	}
	if h.Blackjack() {
		return true
	}
	return h.Best() == Blackjack
}

// Hit appends one card.
func (h *Hand) Hit(c Card) error {
	if h.Terminal() {
		return ErrHandTerminal
	}
	h.Cards = append(h.Cards, c)
	return nil
}

// Double appends exactly one card to a two-card hand and closes it.
func (h *Hand) Double(c Card) error {
	if len(h.Cards) != 2 {
		return ErrCannotDouble
	}
	if h.Terminal() {
		return ErrHandTerminal
	}
	h.Cards = append(h.Cards, c)
	h.Doubled = true
	return nil
}

// SplitHand separates a pair into two one-card hands. Split aces are
// restricted to one more card each unless hitSplitAces is set.
func (h Hand) SplitHand(hitSplitAces bool) (Hand, Hand, error) {
	if !h.Pair() {
		return Hand{}, Hand{}, ErrNotAPair
	}
	aces := h.Cards[0].Rank == Ace
	mk := func(c Card) Hand {
		return Hand{
			Cards:               []Card{c},
			Split:               true,
			SplitAces:           aces,
			RestrictedToOneCard: aces && !hitSplitAces,
		}
	}
	return mk(h.Cards[0]), mk(h.Cards[1]), nil
}

// Stand closes the hand.
func (h *Hand) Stand() error {
	if h.Stood || h.Surrendered {
		return ErrHandTerminal
	}
	h.Stood = true
	return nil
}

// Surrender forfeits a two-card hand that has not been split.
func (h *Hand) Surrender() error {
	if len(h.Cards) != 2 || h.Split || h.Terminal() {
		return ErrHandTerminal
	}
	h.Surrendered = true
	return nil
}

// UpCard is the dealer's first face-up card.
func (h Hand) UpCard() (Card, bool) {
	for _, c := range h.Cards {
		if c.FaceUp {
			return c, true
		}
	}
	return Card{}, false
}

// Reveal turns every card face up.
func (h *Hand) Reveal() {
	for i := range h.Cards {
		h.Cards[i].FaceUp = true
	}
}
