package domain

// Result is the outcome of one player hand against the dealer.
type Result string

const (
	ResultBust      Result = "bust"
	ResultBlackjack Result = "blackjack"
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultPush      Result = "push"
	// ResultSurrender is never produced by DetermineResult; it is the
	// settlement input for a surrendered hand.
	ResultSurrender Result = "surrender"
)

// IsWin reports whether the result pays more than the stake.
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// DetermineResult compares a finished player hand with the finished dealer
// hand. Priority: player bust, both naturals, player natural, dealer
// natural, dealer bust, then totals.
func DetermineResult(player, dealer Hand) Result {
	switch {
	case player.Busted():
		return ResultBust
	case player.Blackjack() && dealer.Blackjack():
		return ResultPush
	case player.Blackjack():
		return ResultBlackjack
	case dealer.Blackjack():
		return ResultLoss
	case dealer.Busted():
		return ResultWin
	}
	p, d := player.Best(), dealer.Best()
	switch {
	case p > d:
		return ResultWin
	case p < d:
		return ResultLoss
	default:
		return ResultPush
	}
}

// CalculatePayout returns the stake-inclusive amount paid back for a hand.
func CalculatePayout(amount float64, result Result, blackjackRatio float64) float64 {
	switch result {
	case ResultBlackjack:
		return amount * (1 + blackjackRatio)
	case ResultWin:
		return amount * 2
	case ResultPush:
		return amount
	case ResultSurrender:
		return amount * 0.5
	default:
		return 0
	}
}
