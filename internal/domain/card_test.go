package domain

import (
	"errors"
	"testing"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"AS", c(Ace, Spades)},
		{"10h", c(Ten, Hearts)},
		{"TD", c(Ten, Diamonds)},
		{" qc ", c(Queen, Clubs)},
		{"7H", c(Seven, Hearts)},
	}
	for _, tt := range tests {
		got, err := ParseCard(tt.in)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if again, _ := ParseCard(got.String()); again != got {
			t.Errorf("%v does not parse back from its String form", got)
		}
	}
}

func TestParseCardRejectsJunk(t *testing.T) {
	for _, in := range []string{"", "A", "1S", "11H", "AX", "ZZ"} {
		if _, err := ParseCard(in); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("ParseCard(%q) err = %v, want ErrInvalidCard", in, err)
		}
	}
}
