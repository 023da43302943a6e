package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrShoeExhausted is returned when a draw is attempted on an empty shoe.
	// It is fatal to the round in flight.
	ErrShoeExhausted = errors.New("shoe exhausted")

	// ErrInvalidCard is returned when card text cannot be parsed.
	ErrInvalidCard = errors.New("invalid card")

	// ErrInvariantViolation marks programmer errors: operations the caller
	// should never have attempted in the current state.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrNotAPair          = fmt.Errorf("%w: hand is not a splittable pair", ErrInvariantViolation)
	ErrCannotDouble      = fmt.Errorf("%w: only a two-card hand can be doubled", ErrInvariantViolation)
	ErrHandTerminal      = fmt.Errorf("%w: hand is already complete", ErrInvariantViolation)
	ErrBetAlreadySettled = fmt.Errorf("%w: bet is already settled", ErrInvariantViolation)
	ErrIllegalTransition = fmt.Errorf("%w: illegal phase transition", ErrInvariantViolation)
)
