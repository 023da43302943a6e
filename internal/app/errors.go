package app

import "errors"

var (
	// ErrRoundFaulted is returned by every round operation after the shoe ran
	// out mid-round. Only Abort recovers the table.
	ErrRoundFaulted         = errors.New("round faulted")
	ErrNoActiveHand         = errors.New("no active hand")
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
	ErrActionNotAllowed     = errors.New("action not allowed")
	ErrInsurancePending     = errors.New("insurance decision pending")
	ErrBetOutOfLimits       = errors.New("bet outside table limits")
	ErrUnknownSideBet       = errors.New("unknown side bet")
)
