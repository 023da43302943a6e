package domain

import (
	"fmt"
	"time"
)

// Phase is the lifecycle stage of a blackjack round.
type Phase string

const (
	// PhaseBetting accepts wagers for the next round.
	PhaseBetting Phase = "betting"
	// PhaseDealing deals the opening cards and checks for naturals.
	PhaseDealing Phase = "dealing"
	// PhasePlayerTurn accepts player decisions.
	PhasePlayerTurn Phase = "player_turn"
	// PhaseDealerTurn plays the dealer hand.
	PhaseDealerTurn Phase = "dealer_turn"
	// PhaseSettlement resolves every wager.
	PhaseSettlement Phase = "settlement"
	// PhaseCleanup clears the table and reshuffles when due.
	PhaseCleanup Phase = "cleanup"
)

// Transition reasons emitted by the machine itself.
const (
	ReasonTimeout = "timeout"
	ReasonReset   = "reset"
)

var legalTransitions = map[Phase][]Phase{
	PhaseBetting:    {PhaseDealing, PhaseCleanup},
	PhaseDealing:    {PhasePlayerTurn, PhaseDealerTurn, PhaseSettlement},
	PhasePlayerTurn: {PhaseDealerTurn, PhaseSettlement},
	PhaseDealerTurn: {PhaseSettlement},
	PhaseSettlement: {PhaseBetting, PhaseCleanup},
	PhaseCleanup:    {PhaseBetting},
}

// Transition is one recorded phase change.
type Transition struct {
	From   Phase     `json:"from"`
	To     Phase     `json:"to"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

// Machine sequences a round and rejects out-of-order phase changes.
type Machine struct {
	current     Phase
	previous    Phase
	history     []Transition
	enteredAt   time.Time
	autoAdvance time.Duration
	now         func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// WithAutoAdvance enables the timeout transition after d in a phase that
// has exactly one legal successor. Zero disables it.
func WithAutoAdvance(d time.Duration) MachineOption {
	return func(m *Machine) { m.autoAdvance = d }
}

// NewMachine starts in PhaseBetting.
func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{current: PhaseBetting, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.enteredAt = m.now()
	return m
}

func (m *Machine) Current() Phase  { return m.current }
func (m *Machine) Previous() Phase { return m.previous }

// History returns a copy of every recorded transition.
func (m *Machine) History() []Transition {
	return append([]Transition(nil), m.history...)
}

// LegalTransitions lists the phases reachable from the current one.
func (m *Machine) LegalTransitions() []Phase {
	return append([]Phase(nil), legalTransitions[m.current]...)
}

// CanTransitionTo reports whether target is a legal successor.
func (m *Machine) CanTransitionTo(target Phase) bool {
	for _, p := range legalTransitions[m.current] {
		if p == target {
			return true
		}
	}
	return false
}

// TransitionTo moves to target, or returns ErrIllegalTransition and leaves
// the machine untouched.
func (m *Machine) TransitionTo(target Phase, reason string) error {
	if !m.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.current, target)
	}
	m.apply(target, reason)
	return nil
}

// Tick fires the auto-advance transition once the current phase has timed
// out and exactly one successor is legal.
func (m *Machine) Tick(now time.Time) (Transition, bool) {
	if m.autoAdvance <= 0 {
		return Transition{}, false
	}
	next := legalTransitions[m.current]
	if len(next) != 1 || now.Sub(m.enteredAt) < m.autoAdvance {
		return Transition{}, false
	}
	return m.applyAt(next[0], ReasonTimeout, now), true
}

// Reset forces the machine into cleanup from any phase.
func (m *Machine) Reset(reason string) {
	if reason == "" {
		reason = ReasonReset
	}
	m.apply(PhaseCleanup, reason)
}

func (m *Machine) apply(target Phase, reason string) {
	m.applyAt(target, reason, m.now())
}

func (m *Machine) applyAt(target Phase, reason string, at time.Time) Transition {
	t := Transition{From: m.current, To: target, At: at, Reason: reason}
	m.history = append(m.history, t)
	m.previous = m.current
	m.current = target
	m.enteredAt = at
	return t
}
