package betting

import "blackjack/internal/domain"

// Record is one settled main wager as a strategy sees it.
type Record struct {
	Amount float64 `json:"amount"`
	Payout float64 `json:"payout"`
}

// Net is the profit or loss of the wager.
func (r Record) Net() float64 { return r.Payout - r.Amount }

func (r Record) Won() bool  { return r.Net() > 0 }
func (r Record) Lost() bool { return r.Net() < 0 }
func (r Record) Push() bool { return r.Net() == 0 }

// FromBet converts a settled bet into a record. Pending bets report false.
func FromBet(b *domain.Bet) (Record, bool) {
	payout, ok := b.SettledPayout()
	if !ok {
		return Record{}, false
	}
	return Record{Amount: b.Amount, Payout: payout}, true
}

// Config tunes the progressions. Amounts are in chips; Sequence is in
// base-bet units.
type Config struct {
	BaseBet  float64   `json:"base_bet"`
	MaxSteps int       `json:"max_steps"`
	MaxWins  int       `json:"max_wins"`
	Sequence []float64 `json:"sequence"`
}

const (
	DefaultMaxSteps = 6
	DefaultMaxWins  = 3
	oscarMaxUnits   = 4
)

// DefaultSequence is the Labouchere starting line.
func DefaultSequence() []float64 { return []float64{1, 2, 3, 4, 5, 6} }

func (c Config) base(limits domain.TableLimits) float64 {
	if c.BaseBet > 0 {
		return c.BaseBet
	}
	return limits.MinBet
}

func (c Config) maxSteps() int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return DefaultMaxSteps
}

func (c Config) maxWins() int {
	if c.MaxWins > 0 {
		return c.MaxWins
	}
	return DefaultMaxWins
}

func (c Config) sequence() []float64 {
	if len(c.Sequence) > 0 {
		return append([]float64(nil), c.Sequence...)
	}
	return DefaultSequence()
}

// Strategy computes the next raw wager from the settled history. The
// result is clamped by NextBet, never by the strategy itself.
// Implementations replay history and keep no state between calls.
type Strategy interface {
	NextBet(history []Record, bankroll float64, limits domain.TableLimits) float64
}

// Clamp fits amount into the table limits and then into the bankroll.
func Clamp(amount, bankroll float64, limits domain.TableLimits) float64 {
	if bankroll <= 0 {
		return 0
	}
	return min(limits.Clamp(amount), bankroll)
}

// decided drops pushes, which leave every progression unchanged.
func decided(history []Record) []Record {
	out := make([]Record, 0, len(history))
	for _, r := range history {
		if !r.Push() {
			out = append(out, r)
		}
	}
	return out
}

// trailing counts the run of records at the end of history matching fn.
func trailing(history []Record, fn func(Record) bool) int {
	n := 0
	for i := len(history) - 1; i >= 0 && fn(history[i]); i-- {
		n++
	}
	return n
}
