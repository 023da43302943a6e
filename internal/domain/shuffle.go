package domain

import "math/rand"

// Shuffle returns an unbiased random permutation of cards (Fisher–Yates,
// walking from the last index down to 1). The input slice is not modified.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Cut rotates cards so that the card at position becomes the top card.
// Positions outside [0, len] are clamped.
func Cut(cards []Card, position int) []Card {
	n := len(cards)
	if position < 0 {
		position = 0
	}
	if position > n {
		position = n
	}
	out := make([]Card, 0, n)
	out = append(out, cards[position:]...)
	return append(out, cards[:position]...)
}

// RandomCutPosition picks a cut point inside the middle 40% of n cards.
func RandomCutPosition(n int, rng *rand.Rand) int {
	if n < 2 {
		return 0
	}
	lo := n * 3 / 10
	hi := n * 7 / 10
	return lo + rng.Intn(hi-lo+1)
}

// RiffleShuffle simulates one hand riffle (Gilbert–Shannon–Reeds model).
// It is for display sequences only and never feeds a live shoe.
func RiffleShuffle(cards []Card, rng *rand.Rand) []Card {
	n := len(cards)
	split := 0
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 0 {
			split++
		}
	}
	left, right := cards[:split], cards[split:]
	out := make([]Card, 0, n)
	for len(left) > 0 || len(right) > 0 {
		if rng.Intn(len(left)+len(right)) < len(left) {
			out = append(out, left[0])
			left = left[1:]
		} else {
			out = append(out, right[0])
			right = right[1:]
		}
	}
	return out
}

// OverhandShuffle simulates an overhand shuffle: small packets are slipped
// off the top and stacked onto a new pile. Display only.
func OverhandShuffle(cards []Card, rng *rand.Rand) []Card {
	rest := make([]Card, len(cards))
	copy(rest, cards)
	var pile []Card
	for len(rest) > 0 {
		size := 1 + rng.Intn(min(8, len(rest)))
		packet := rest[:size]
		rest = rest[size:]
		pile = append(append([]Card{}, packet...), pile...)
	}
	return pile
}
