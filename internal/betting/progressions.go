package betting

import (
	"math"

	"blackjack/internal/domain"
)

// Flat repeats the base bet.
type Flat struct{ Config }

func (s Flat) NextBet(_ []Record, _ float64, limits domain.TableLimits) float64 {
	return s.base(limits)
}

// Martingale doubles after every loss and resets after a win. A run of
// MaxSteps losses resets to the base bet.
type Martingale struct{ Config }

func (s Martingale) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	losses := trailing(decided(history), Record.Lost)
	steps := losses % s.maxSteps()
	return s.base(limits) * math.Pow(2, float64(steps))
}

// Parlay lets the whole payout ride after a win, up to MaxWins in a row.
type Parlay struct{ Config }

func (s Parlay) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	h := decided(history)
	wins := trailing(h, Record.Won)
	if wins == 0 || wins >= s.maxWins() {
		return s.base(limits)
	}
	return h[len(h)-1].Payout
}

// Fibonacci walks one step up the sequence per loss and two down per win.
type Fibonacci struct{ Config }

func (s Fibonacci) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	return s.base(limits) * fibonacci(s.Index(history))
}

// Index is the position in the Fibonacci sequence after history.
func (s Fibonacci) Index(history []Record) int {
	idx := 0
	for _, r := range decided(history) {
		if r.Won() {
			idx = max(0, idx-2)
		} else {
			idx++
		}
	}
	return idx
}

// fibonacci returns the n-th term of 1, 1, 2, 3, 5, ...
func fibonacci(n int) float64 {
	a, b := 1.0, 1.0
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

// DAlembert adds one unit after a loss and removes one after a win, never
// going below one unit.
type DAlembert struct{ Config }

func (s DAlembert) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	units := 1
	for _, r := range decided(history) {
		if r.Won() {
			units = max(1, units-1)
		} else {
			units++
		}
	}
	return s.base(limits) * float64(units)
}

// OscarsGrind aims to win one unit per cycle. The bet grows by a unit after
// each win while the cycle is behind, is held after a loss, never exceeds
// four units, and never exceeds what the cycle still needs.
type OscarsGrind struct{ Config }

func (s OscarsGrind) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	unit := s.base(limits)
	bet, profit := unit, 0.0
	for _, r := range decided(history) {
		profit += r.Net()
		if profit >= unit {
			bet, profit = unit, 0
			continue
		}
		if r.Won() {
			bet = min(bet+unit, oscarMaxUnits*unit)
		}
		bet = max(unit, min(bet, unit-profit))
	}
	return bet
}

// Labouchere bets the sum of the ends of a sequence of units, crosses off
// both ends on a win and appends the attempted bet on a loss. An exhausted
// sequence starts over.
type Labouchere struct{ Config }

func (s Labouchere) NextBet(history []Record, _ float64, limits domain.TableLimits) float64 {
	return s.base(limits) * labouchereBet(s.Sequence(history))
}

// Sequence replays history and returns the line the next bet is taken from.
func (s Labouchere) Sequence(history []Record) []float64 {
	seq := s.sequence()
	for _, r := range decided(history) {
		if len(seq) == 0 {
			seq = s.sequence()
		}
		attempted := labouchereBet(seq)
		if r.Won() {
			if len(seq) <= 2 {
				seq = seq[:0]
			} else {
				seq = seq[1 : len(seq)-1]
			}
		} else {
			seq = append(seq, attempted)
		}
	}
	if len(seq) == 0 {
		seq = s.sequence()
	}
	return append([]float64(nil), seq...)
}

func labouchereBet(seq []float64) float64 {
	switch len(seq) {
	case 0:
		return 0
	case 1:
		return seq[0]
	default:
		return seq[0] + seq[len(seq)-1]
	}
}
