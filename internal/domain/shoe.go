package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	MinDecks           = 1
	MaxDecks           = 8
	DefaultPenetration = 0.75
)

// Shoe is an arena of cards: every card is stored once and a cursor marks
// the first undealt position. Cards behind the cursor can never be dealt
// again until the next reshuffle.
//
// A Shoe is not safe for concurrent use; it belongs to exactly one table.
type Shoe struct {
	ID string

	decks       int
	cards       []Card
	cursor      int
	cutIndex    int
	penetration float64
	rng         *rand.Rand
}

// ClampDecks normalizes a deck count into [MinDecks, MaxDecks].
func ClampDecks(n int) int {
	return max(MinDecks, min(MaxDecks, n))
}

// BuildCards returns deckCount ordered decks, 52×N cards.
func BuildCards(deckCount int) []Card {
	deckCount = ClampDecks(deckCount)
	cards := make([]Card, 0, 52*deckCount)
	for i := 0; i < deckCount; i++ {
		cards = append(cards, NewDeck()...)
	}
	return cards
}

// NewShoe builds, shuffles and cuts a shoe of deckCount decks and places
// the cut card at the given penetration. A nil rng is replaced by a
// time-seeded source.
func NewShoe(deckCount int, penetration float64, rng *rand.Rand) *Shoe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Shoe{
		decks: ClampDecks(deckCount),
		rng:   rng,
	}
	s.cards = BuildCards(s.decks)
	s.penetration = clampUnit(penetration)
	s.Reshuffle()
	return s
}

// NewShoeFromCards builds a shoe that deals cards in exactly the given
// order until its first reshuffle. Used for replays and scripted rounds.
func NewShoeFromCards(cards []Card, penetration float64, rng *rand.Rand) *Shoe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Shoe{
		decks: ClampDecks((len(cards) + 51) / 52),
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	for i, c := range cards {
		s.cards[i] = c.Revealed()
	}
	s.PlaceCutCard(penetration)
	s.ID = newID(rng)
	return s
}

// Reshuffle collects every card, shuffles, cuts at a random point and
// places the cut card again. Only call between rounds.
func (s *Shoe) Reshuffle() {
	s.cards = Shuffle(s.cards, s.rng)
	s.cards = Cut(s.cards, RandomCutPosition(len(s.cards), s.rng))
	s.cursor = 0
	s.PlaceCutCard(s.penetration)
	s.ID = newID(s.rng)
}

// PlaceCutCard marks the reshuffle trigger at penetration × size.
func (s *Shoe) PlaceCutCard(penetration float64) {
	s.penetration = clampUnit(penetration)
	s.cutIndex = int(s.penetration * float64(len(s.cards)))
}

// Draw deals the top card face up.
func (s *Shoe) Draw() (Card, error) {
	if s.cursor >= len(s.cards) {
		return Card{}, ErrShoeExhausted
	}
	c := s.cards[s.cursor].Revealed()
	s.cursor++
	return c, nil
}

// Burn discards the top card without dealing it.
func (s *Shoe) Burn() error {
	_, err := s.Draw()
	return err
}

// NeedsShuffle reports whether the cut card has been reached.
func (s *Shoe) NeedsShuffle() bool {
	return s.cursor >= s.cutIndex || s.cursor >= len(s.cards)
}

// Remaining is the number of undealt cards.
func (s *Shoe) Remaining() int { return len(s.cards) - s.cursor }

// Dealt is the number of cards dealt since the last reshuffle.
func (s *Shoe) Dealt() int { return s.cursor }

// Size is the total number of cards in the shoe.
func (s *Shoe) Size() int { return len(s.cards) }

// Decks is the number of decks in the shoe.
func (s *Shoe) Decks() int { return s.decks }

// CutIndex is the position of the cut card.
func (s *Shoe) CutIndex() int { return s.cutIndex }

// Penetration is the configured cut-card ratio.
func (s *Shoe) Penetration() float64 { return s.penetration }

// Commitment hashes the current card order with salt. Publishing the
// commitment before play lets the order be verified once the shoe is done.
func (s *Shoe) Commitment(salt string) string {
	h := sha256.New()
	h.Write([]byte(salt))
	for _, c := range s.cards {
		fmt.Fprintf(h, "|%s%s", c.Rank, c.Suit)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}

// newID derives a UUID from the shoe's rng so seeded runs stay reproducible.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
