package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four French suits.
type Suit string

const (
	Clubs    Suit = "C"
	Diamonds Suit = "D"
	Hearts   Suit = "H"
	Spades   Suit = "S"
)

// Suits lists the suits in deck-building order.
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

// Red reports whether the suit is hearts or diamonds.
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Rank is the card rank, Ace=1 through King=13.
type Rank int

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is a single playing card. Cards are values: once dealt they are
// copied into a hand and never mutated, except for turning the hole card.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"face_up"`
}

// NewCard returns a face-up card.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// Values returns the point values the card can take: {1, 11} for an ace,
// {10} for tens and face cards, {rank} otherwise.
func (c Card) Values() []int {
	switch {
	case c.Rank == Ace:
		return []int{1, 11}
	case c.Rank >= Ten:
		return []int{10}
	default:
		return []int{int(c.Rank)}
	}
}

// Points is the value used for up-card lookups: ace counts 11, faces 10.
func (c Card) Points() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsTenValue reports whether the card counts as ten.
func (c Card) IsTenValue() bool {
	return c.Rank >= Ten
}

// Hidden returns a face-down copy of the card.
func (c Card) Hidden() Card {
	c.FaceUp = false
	return c
}

// Revealed returns a face-up copy of the card.
func (c Card) Revealed() Card {
	c.FaceUp = true
	return c
}

func (c Card) String() string {
	if !c.FaceUp {
		return "??"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// ParseCard reads the compact form String prints, such as "AS", "10H" or
// "TD". The card comes back face up.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rankText, suit := s[:len(s)-1], Suit(s[len(s)-1:])
	switch suit {
	case Clubs, Diamonds, Hearts, Spades:
	default:
		return Card{}, fmt.Errorf("%w: unknown suit in %q", ErrInvalidCard, s)
	}

	var rank Rank
	switch rankText {
	case "A":
		rank = Ace
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(rankText)
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
		}
		rank = Rank(n)
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses each entry with ParseCard.
func ParseCards(in []string) ([]Card, error) {
	out := make([]Card, 0, len(in))
	for _, s := range in {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// NewDeck returns an ordered, face-up 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, NewCard(r, s))
		}
	}
	return deck
}
