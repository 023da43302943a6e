package domain

// BetStatus tracks a wager through settlement.
type BetStatus string

const (
	BetPending     BetStatus = "pending"
	BetWon         BetStatus = "won"
	BetLost        BetStatus = "lost"
	BetPush        BetStatus = "push"
	BetSurrendered BetStatus = "surrendered"
	BetCancelled   BetStatus = "cancelled"
)

// Bet is a wager on one hand (or a side bet on the seat). It is mutable
// only while pending.
type Bet struct {
	Amount     float64   `json:"amount"`
	Status     BetStatus `json:"status"`
	HandIndex  int       `json:"hand_index"`
	Payout     float64   `json:"payout"`
	Multiplier float64   `json:"multiplier"`
}

// NewBet opens a pending wager on the given hand.
func NewBet(amount float64, handIndex int) *Bet {
	return &Bet{Amount: amount, Status: BetPending, HandIndex: handIndex}
}

// Pending reports whether the bet can still change.
func (b *Bet) Pending() bool { return b.Status == BetPending }

// SettledPayout returns the payout once the bet is settled.
func (b *Bet) SettledPayout() (float64, bool) {
	if b.Pending() {
		return 0, false
	}
	return b.Payout, true
}

// Net is payout minus stake; zero while pending.
func (b *Bet) Net() float64 {
	if b.Pending() {
		return 0
	}
	return b.Payout - b.Amount
}

// Settle fixes the payout for a main-hand result.
func (b *Bet) Settle(result Result, blackjackRatio float64) error {
	if !b.Pending() {
		return ErrBetAlreadySettled
	}
	b.Payout = CalculatePayout(b.Amount, result, blackjackRatio)
	switch result {
	case ResultBlackjack, ResultWin:
		b.Status = BetWon
	case ResultPush:
		b.Status = BetPush
	case ResultSurrender:
		b.Status = BetSurrendered
	default:
		b.Status = BetLost
	}
	b.setMultiplier()
	return nil
}

// SettleSide fixes the payout for a side-bet outcome.
func (b *Bet) SettleSide(outcome SideBetOutcome) error {
	if !b.Pending() {
		return ErrBetAlreadySettled
	}
	if outcome.Won() {
		b.Status = BetWon
		b.Payout = b.Amount * (outcome.Multiplier + 1)
	} else {
		b.Status = BetLost
		b.Payout = 0
	}
	b.setMultiplier()
	return nil
}

// Cancel voids a pending bet and refunds the stake.
func (b *Bet) Cancel() error {
	if !b.Pending() {
		return ErrBetAlreadySettled
	}
	b.Status = BetCancelled
	b.Payout = b.Amount
	b.setMultiplier()
	return nil
}

// Double adds the same stake again to a pending bet.
func (b *Bet) Double() error {
	if !b.Pending() {
		return ErrBetAlreadySettled
	}
	b.Amount *= 2
	return nil
}

func (b *Bet) setMultiplier() {
	if b.Amount > 0 {
		b.Multiplier = b.Payout / b.Amount
	}
}
