package app

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/advisor"
	"blackjack/internal/betting"
	"blackjack/internal/domain"
	"blackjack/internal/logging"
)

// TableOptions configures a Table. Zero values fall back to the default
// rules and limits, basic strategy advice and a no-op logger.
type TableOptions struct {
	ID          string
	Rules       domain.GameRules
	Limits      domain.TableLimits
	Bankroll    float64
	AutoAdvance time.Duration
	Advisor     advisor.Advisor
	Sealer      *ShoeSealService
	Logger      runtime.Logger
	Clock       func() time.Time
}

// SideWager is a side bet riding on the round.
type SideWager struct {
	Kind    domain.SideBetKind     `json:"kind"`
	Bet     *domain.Bet            `json:"bet"`
	Outcome *domain.SideBetOutcome `json:"outcome,omitempty"`
}

// Round is the state of the round in flight. Hands and Bets are parallel:
// Bets[i] is the wager on Hands[i].
type Round struct {
	ID               string          `json:"id"`
	Number           int             `json:"number"`
	Stake            float64         `json:"stake"`
	Hands            []domain.Hand   `json:"hands"`
	Bets             []*domain.Bet   `json:"bets"`
	Active           int             `json:"active"`
	Dealer           domain.Hand     `json:"dealer"`
	SideBets         []SideWager     `json:"side_bets,omitempty"`
	Insurance        *domain.Bet     `json:"insurance,omitempty"`
	InsurancePending bool            `json:"insurance_pending"`
	Splits           int             `json:"splits"`
	Results          []domain.Result `json:"results,omitempty"`

	initial []domain.Card
}

// RoundSummary reports a settled round.
type RoundSummary struct {
	RoundID     string          `json:"round_id"`
	Number      int             `json:"number"`
	Results     []domain.Result `json:"results"`
	Hands       []domain.Hand   `json:"hands"`
	Dealer      domain.Hand     `json:"dealer"`
	InitialBet  float64         `json:"initial_bet"`
	Wagered     float64         `json:"wagered"`
	Payout      float64         `json:"payout"`
	SideWagered float64         `json:"side_wagered"`
	SidePayout  float64         `json:"side_payout"`
	Net         float64         `json:"net"`
	Bankroll    float64         `json:"bankroll"`
}

// Table is the round controller for a single seat. It exclusively owns its
// shoe and phase machine; one round is in flight at a time. A Table is not
// safe for concurrent use.
type Table struct {
	ID string

	rules       domain.GameRules
	limits      domain.TableLimits
	autoAdvance time.Duration
	rng         *rand.Rand
	shoe        *domain.Shoe
	machine     *domain.Machine
	advisor     advisor.Advisor
	sealer      *ShoeSealService
	logger      runtime.Logger

	bankroll float64
	rounds   int
	round    *Round
	last     *RoundSummary
	history  []betting.Record
	faulted  bool
	salt     string
	seal     string
}

// NewTable constructs a Table with provided rng or a time-seeded default.
func NewTable(opts TableOptions, rng *rand.Rand) *Table {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Rules == (domain.GameRules{}) {
		opts.Rules = domain.DefaultRules()
	}
	if opts.Limits == (domain.TableLimits{}) {
		opts.Limits = domain.DefaultLimits()
	}
	if opts.Advisor == nil {
		opts.Advisor = advisor.BasicStrategy{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	machineOpts := []domain.MachineOption{domain.WithAutoAdvance(opts.AutoAdvance)}
	if opts.Clock != nil {
		machineOpts = append(machineOpts, domain.WithClock(opts.Clock))
	}

	t := &Table{
		ID:          opts.ID,
		rules:       opts.Rules.Normalize(),
		limits:      opts.Limits.Normalize(),
		autoAdvance: opts.AutoAdvance,
		rng:         rng,
		machine:     domain.NewMachine(machineOpts...),
		advisor:     opts.Advisor,
		sealer:      opts.Sealer,
		logger:      opts.Logger,
		bankroll:    opts.Bankroll,
	}
	if t.ID == "" {
		t.ID = newID(rng)
	}
	t.logger = t.logger.WithField("table", t.ID)
	t.shoe = domain.NewShoe(t.rules.Decks, t.rules.Penetration, rng)
	t.burn()
	t.sealShoe()
	return t
}

// UseShoe replaces the shoe between rounds. Used to replay a recorded
// shoe order.
func (t *Table) UseShoe(shoe *domain.Shoe) error {
	if t.round != nil {
		return fmt.Errorf("%w: round in flight", ErrActionNotAllowed)
	}
	t.shoe = shoe
	t.sealShoe()
	return nil
}

func (t *Table) Phase() domain.Phase        { return t.machine.Current() }
func (t *Table) Bankroll() float64          { return t.bankroll }
func (t *Table) Rules() domain.GameRules    { return t.rules }
func (t *Table) Limits() domain.TableLimits { return t.limits }
func (t *Table) Faulted() bool              { return t.faulted }
func (t *Table) ShoeID() string             { return t.shoe.ID }
func (t *Table) Seal() string               { return t.seal }

// RoundInFlight reports whether stakes are on the table and unsettled.
func (t *Table) RoundInFlight() bool {
	if t.round == nil {
		return false
	}
	phase := t.machine.Current()
	return phase != domain.PhaseSettlement && phase != domain.PhaseCleanup
}

// Deposit adds chips to the bankroll between rounds.
func (t *Table) Deposit(amount float64) {
	if amount > 0 {
		t.bankroll += amount
	}
}

// History returns the settled main-bet records, oldest first.
func (t *Table) History() []betting.Record {
	return append([]betting.Record(nil), t.history...)
}

// LastRound returns the most recently settled round.
func (t *Table) LastRound() (RoundSummary, bool) {
	if t.last == nil {
		return RoundSummary{}, false
	}
	return *t.last, true
}

// PlaceBet opens a round with a main wager and optional side bets. The
// stakes are taken from the bankroll immediately.
func (t *Table) PlaceBet(amount float64, sides map[domain.SideBetKind]float64) ([]Event, error) {
	if err := t.guard(domain.PhaseBetting); err != nil {
		return nil, err
	}
	if t.round != nil {
		return nil, fmt.Errorf("%w: bet already placed", ErrActionNotAllowed)
	}
	if amount < t.limits.MinBet || amount > t.limits.MaxBet {
		return nil, fmt.Errorf("%w: main bet %.2f not in [%.2f, %.2f]", ErrBetOutOfLimits, amount, t.limits.MinBet, t.limits.MaxBet)
	}
	for kind := range sides {
		if _, ok := domain.LookupSideBet(kind); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSideBet, kind)
		}
	}

	total := amount
	var wagers []SideWager
	for _, kind := range domain.SideBetKinds() {
		stake, ok := sides[kind]
		if !ok || stake == 0 {
			continue
		}
		if kind == domain.SideBetInsurance {
			return nil, fmt.Errorf("%w: insurance is offered after the deal", ErrActionNotAllowed)
		}
		if stake < t.limits.MinSideBet || stake > t.limits.MaxSideBet {
			return nil, fmt.Errorf("%w: %s bet %.2f not in [%.2f, %.2f]", ErrBetOutOfLimits, kind, stake, t.limits.MinSideBet, t.limits.MaxSideBet)
		}
		total += stake
		wagers = append(wagers, SideWager{Kind: kind, Bet: domain.NewBet(stake, 0)})
	}
	if total > t.bankroll {
		return nil, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientBankroll, total, t.bankroll)
	}

	t.bankroll -= total
	t.rounds++
	t.round = &Round{
		ID:       newID(t.rng),
		Number:   t.rounds,
		Stake:    amount,
		Bets:     []*domain.Bet{domain.NewBet(amount, 0)},
		SideBets: wagers,
	}
	t.logger.Debug("round %s: bet %.2f with %d side bets", t.round.ID, amount, len(wagers))

	return []Event{{
		Kind: EventBetPlaced,
		Payload: BetPlacedPayload{
			RoundID:  t.round.ID,
			Amount:   amount,
			SideBets: sides,
			Bankroll: t.bankroll,
		},
	}}, nil
}

// Deal closes betting and deals two cards each, the dealer's second face
// down. It offers insurance on an ace, peeks for a dealer natural and
// settles immediately when either side holds one.
func (t *Table) Deal() ([]Event, error) {
	if err := t.guard(domain.PhaseBetting); err != nil {
		return nil, err
	}
	r := t.round
	if r == nil {
		return nil, fmt.Errorf("%w: no bet placed", ErrActionNotAllowed)
	}

	events, err := t.moveTo(nil, domain.PhaseDealing, "bets closed")
	if err != nil {
		return events, err
	}
	var cards [4]domain.Card
	for i := range cards {
		c, err := t.draw()
		if err != nil {
			return events, err
		}
		cards[i] = c
	}
	r.Hands = []domain.Hand{domain.NewHand(cards[0], cards[2])}
	r.Dealer = domain.NewHand(cards[1], cards[3].Hidden())
	r.initial = []domain.Card{cards[0], cards[2]}

	events = append(events, Event{
		Kind:    EventCardsDealt,
		Payload: CardsDealtPayload{RoundID: r.ID, Hand: r.Hands[0], DealerUp: cards[1]},
	})

	if cards[1].Rank == domain.Ace && t.rules.InsuranceAllowed {
		r.InsurancePending = true
		events, err = t.moveTo(events, domain.PhasePlayerTurn, "insurance offered")
		if err != nil {
			return events, err
		}
		return append(events, Event{
			Kind:    EventInsuranceOffered,
			Payload: InsuranceOfferedPayload{RoundID: r.ID, Cost: r.Bets[0].Amount / 2},
		}), nil
	}
	return t.afterPeek(events)
}

// Insurance answers the insurance offer. Taking it costs half the main bet.
func (t *Table) Insurance(take bool) ([]Event, error) {
	if err := t.guard(domain.PhasePlayerTurn); err != nil {
		return nil, err
	}
	r := t.round
	if !r.InsurancePending {
		return nil, fmt.Errorf("%w: insurance was not offered", ErrActionNotAllowed)
	}
	if take {
		cost := r.Bets[0].Amount / 2
		if cost > t.bankroll {
			return nil, fmt.Errorf("%w: insurance costs %.2f", ErrInsufficientBankroll, cost)
		}
		t.bankroll -= cost
		r.Insurance = domain.NewBet(cost, 0)
	}
	r.InsurancePending = false
	events := []Event{{
		Kind:    EventInsuranceResolved,
		Payload: InsuranceResolvedPayload{RoundID: r.ID, Taken: take},
	}}
	return t.afterPeek(events)
}

// Hit draws one card to the active hand.
func (t *Table) Hit() ([]Event, error) {
	h, _, err := t.activeHand()
	if err != nil {
		return nil, err
	}
	if h.Terminal() {
		return nil, domain.ErrHandTerminal
	}
	c, err := t.draw()
	if err != nil {
		return nil, err
	}
	if err := h.Hit(c); err != nil {
		return nil, err
	}
	events := []Event{t.drawnEvent(advisor.Hit, c)}
	return t.advance(events)
}

// Stand closes the active hand.
func (t *Table) Stand() ([]Event, error) {
	h, _, err := t.activeHand()
	if err != nil {
		return nil, err
	}
	if err := h.Stand(); err != nil {
		return nil, err
	}
	return t.advance(nil)
}

// Double doubles the stake on the active hand and deals exactly one card.
func (t *Table) Double() ([]Event, error) {
	h, bet, err := t.activeHand()
	if err != nil {
		return nil, err
	}
	if !t.flags().CanDouble {
		if t.bankroll < bet.Amount {
			return nil, fmt.Errorf("%w: doubling needs %.2f", ErrInsufficientBankroll, bet.Amount)
		}
		return nil, fmt.Errorf("%w: double", ErrActionNotAllowed)
	}
	stake := bet.Amount
	c, err := t.draw()
	if err != nil {
		return nil, err
	}
	if err := h.Double(c); err != nil {
		return nil, err
	}
	if err := bet.Double(); err != nil {
		return nil, err
	}
	t.bankroll -= stake
	events := []Event{t.drawnEvent(advisor.Double, c)}
	return t.advance(events)
}

// Split separates the active pair into two hands, each with its own bet
// and one new card.
func (t *Table) Split() ([]Event, error) {
	h, bet, err := t.activeHand()
	if err != nil {
		return nil, err
	}
	r := t.round
	if !t.canSplit(r.Active) {
		if h.Pair() && t.bankroll < bet.Amount {
			return nil, fmt.Errorf("%w: splitting needs %.2f", ErrInsufficientBankroll, bet.Amount)
		}
		return nil, fmt.Errorf("%w: split", ErrActionNotAllowed)
	}
	left, right, err := h.SplitHand(t.rules.HitSplitAces)
	if err != nil {
		return nil, err
	}
	for _, hand := range []*domain.Hand{&left, &right} {
		c, err := t.draw()
		if err != nil {
			return nil, err
		}
		hand.Cards = append(hand.Cards, c)
	}

	i := r.Active
	r.Hands[i] = left
	r.Hands = slices.Insert(r.Hands, i+1, right)
	r.Bets = slices.Insert(r.Bets, i+1, domain.NewBet(bet.Amount, i+1))
	for j, b := range r.Bets {
		b.HandIndex = j
	}
	r.Splits++
	t.bankroll -= bet.Amount

	events := []Event{{
		Kind: EventHandSplit,
		Payload: HandSplitPayload{
			RoundID:   r.ID,
			HandIndex: i,
			Hands:     append([]domain.Hand(nil), r.Hands...),
		},
	}}
	return t.advance(events)
}

// Surrender gives up the hand for half the stake back.
func (t *Table) Surrender() ([]Event, error) {
	h, _, err := t.activeHand()
	if err != nil {
		return nil, err
	}
	if !t.flags().CanSurrender {
		return nil, fmt.Errorf("%w: surrender", ErrActionNotAllowed)
	}
	if err := h.Surrender(); err != nil {
		return nil, err
	}
	events := []Event{{
		Kind:    EventHandSurrendered,
		Payload: HandSurrenderedPayload{RoundID: t.round.ID, HandIndex: t.round.Active},
	}}
	return t.advance(events)
}

// Apply dispatches a player action.
func (t *Table) Apply(action advisor.Action) ([]Event, error) {
	switch action {
	case advisor.Hit:
		return t.Hit()
	case advisor.Stand:
		return t.Stand()
	case advisor.Double:
		return t.Double()
	case advisor.Split:
		return t.Split()
	case advisor.Surrender:
		return t.Surrender()
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrActionNotAllowed, action)
	}
}

// Advice asks the table's advisor about the active hand.
func (t *Table) Advice() (advisor.Advice, error) {
	h, _, err := t.activeHand()
	if err != nil {
		return advisor.Advice{}, err
	}
	up, _ := t.round.Dealer.UpCard()
	return t.advisor.Recommend(*h, up, t.flags()), nil
}

// LegalActions lists what the player may do right now.
func (t *Table) LegalActions() []advisor.Action {
	h, _, err := t.activeHand()
	if err != nil {
		return nil
	}
	var out []advisor.Action
	if !h.Terminal() {
		out = append(out, advisor.Hit, advisor.Stand)
	} else if !h.Stood {
		out = append(out, advisor.Stand)
	}
	flags := t.flags()
	if flags.CanDouble {
		out = append(out, advisor.Double)
	}
	if flags.CanSplit {
		out = append(out, advisor.Split)
	}
	if flags.CanSurrender {
		out = append(out, advisor.Surrender)
	}
	return out
}

// NextRound clears the settled round, reshuffles when the cut card came
// out and reopens betting. With auto-advance enabled the table waits in
// cleanup until Tick moves it on.
func (t *Table) NextRound() ([]Event, error) {
	if err := t.guard(domain.PhaseSettlement); err != nil {
		return nil, err
	}
	events, err := t.moveTo(nil, domain.PhaseCleanup, "round complete")
	if err != nil {
		return events, err
	}
	t.round = nil
	if t.shoe.NeedsShuffle() {
		events = append(events, t.reshuffle())
	}
	if t.autoAdvance == 0 {
		return t.moveTo(events, domain.PhaseBetting, "next round")
	}
	return events, nil
}

// Abort cancels the round in flight from any phase, refunding every
// pending stake. It is the only way out of a faulted round.
func (t *Table) Abort(reason string) []Event {
	if reason == "" {
		reason = domain.ReasonReset
	}
	var events []Event
	refund := 0.0
	roundID := ""
	if r := t.round; r != nil {
		roundID = r.ID
		for _, b := range r.allBets() {
			if b.Pending() && b.Cancel() == nil {
				refund += b.Payout
			}
		}
	}
	t.bankroll += refund

	from := t.machine.Current()
	t.machine.Reset(reason)
	events = append(events,
		Event{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{From: from, To: domain.PhaseCleanup, Reason: reason}},
		Event{Kind: EventRoundAborted, Payload: RoundAbortedPayload{RoundID: roundID, Reason: reason, Refund: refund}},
	)
	t.logger.Warn("round %s aborted (%s), refunded %.2f", roundID, reason, refund)

	t.round = nil
	if t.faulted || t.shoe.NeedsShuffle() {
		t.faulted = false
		events = append(events, t.reshuffle())
	}
	if t.autoAdvance == 0 {
		events, _ = t.moveTo(events, domain.PhaseBetting, "round aborted")
	}
	return events
}

// Tick drives the phase machine's auto-advance timer.
func (t *Table) Tick(now time.Time) []Event {
	tr, ok := t.machine.Tick(now)
	if !ok {
		return nil
	}
	return []Event{{Kind: EventPhaseChanged, Payload: PhaseChangedPayload{From: tr.From, To: tr.To, Reason: tr.Reason}}}
}

func (t *Table) guard(phase domain.Phase) error {
	if t.faulted {
		return ErrRoundFaulted
	}
	if current := t.machine.Current(); current != phase {
		return fmt.Errorf("%w: table is in %s", ErrActionNotAllowed, current)
	}
	return nil
}

func (t *Table) moveTo(events []Event, to domain.Phase, reason string) ([]Event, error) {
	from := t.machine.Current()
	if err := t.machine.TransitionTo(to, reason); err != nil {
		return events, err
	}
	return append(events, Event{
		Kind:    EventPhaseChanged,
		Payload: PhaseChangedPayload{From: from, To: to, Reason: reason},
	}), nil
}

func (t *Table) draw() (domain.Card, error) {
	c, err := t.shoe.Draw()
	if err != nil {
		t.fault(err)
		return domain.Card{}, fmt.Errorf("%w: %w", ErrRoundFaulted, err)
	}
	return c, nil
}

func (t *Table) fault(err error) {
	t.faulted = true
	id := ""
	if t.round != nil {
		id = t.round.ID
	}
	t.logger.Error("round %s faulted: %v", id, err)
}

func (t *Table) activeHand() (*domain.Hand, *domain.Bet, error) {
	if err := t.guard(domain.PhasePlayerTurn); err != nil {
		return nil, nil, err
	}
	r := t.round
	if r.InsurancePending {
		return nil, nil, ErrInsurancePending
	}
	if r.Active >= len(r.Hands) {
		return nil, nil, ErrNoActiveHand
	}
	return &r.Hands[r.Active], r.Bets[r.Active], nil
}

func (t *Table) drawnEvent(action advisor.Action, c domain.Card) Event {
	r := t.round
	return Event{
		Kind: EventCardDrawn,
		Payload: CardDrawnPayload{
			RoundID:   r.ID,
			HandIndex: r.Active,
			Action:    action,
			Card:      c,
			Hand:      r.Hands[r.Active],
		},
	}
}

func (t *Table) flags() advisor.Flags {
	r := t.round
	h, bet := r.Hands[r.Active], r.Bets[r.Active]
	two := len(h.Cards) == 2
	return advisor.Flags{
		CanDouble: t.rules.DoubleAllowed && two && !h.Terminal() &&
			(!h.Split || t.rules.DoubleAfterSplit) && t.bankroll >= bet.Amount,
		CanSplit:         t.canSplit(r.Active),
		CanSurrender:     t.rules.SurrenderAllowed && two && !h.Split && !h.Terminal() && len(r.Hands) == 1,
		DoubleAfterSplit: t.rules.DoubleAfterSplit,
		DealerHitsSoft17: t.rules.DealerHitsSoft17,
	}
}

func (t *Table) canSplit(i int) bool {
	r := t.round
	h := r.Hands[i]
	switch {
	case !h.Pair() || h.Stood:
		return false
	case r.Splits >= t.rules.MaxSplits:
		return false
	case h.SplitAces && !t.rules.ResplitAces:
		return false
	}
	return t.bankroll >= r.Bets[i].Amount
}

// open reports whether hand i still takes decisions. A restricted split ace
// that drew another ace stays open while it may be resplit.
func (t *Table) open(i int) bool {
	h := t.round.Hands[i]
	if !h.Terminal() {
		return true
	}
	return h.SplitAces && t.canSplit(i)
}

// advance moves to the next open hand, or on to the dealer when none is
// left.
func (t *Table) advance(events []Event) ([]Event, error) {
	r := t.round
	for r.Active < len(r.Hands) && !t.open(r.Active) {
		r.Active++
	}
	if r.Active < len(r.Hands) {
		return events, nil
	}
	return t.playDealer(events)
}

// afterPeek runs once the insurance question, if any, is answered.
func (t *Table) afterPeek(events []Event) ([]Event, error) {
	r := t.round
	up, _ := r.Dealer.UpCard()
	if up.Rank == domain.Ace || up.IsTenValue() {
		peek := domain.NewHand(r.Dealer.Cards...)
		peek.Reveal()
		if peek.Blackjack() {
			return t.settle(events, "dealer blackjack")
		}
	}
	if r.Hands[0].Blackjack() {
		return t.settle(events, "player blackjack")
	}
	if t.machine.Current() == domain.PhasePlayerTurn {
		return events, nil
	}
	return t.moveTo(events, domain.PhasePlayerTurn, "deal complete")
}

func (t *Table) playDealer(events []Event) ([]Event, error) {
	r := t.round
	live := false
	for _, h := range r.Hands {
		if !h.Busted() && !h.Surrendered {
			live = true
			break
		}
	}
	if !live {
		return t.settle(events, "no live hands")
	}

	events, err := t.moveTo(events, domain.PhaseDealerTurn, "player done")
	if err != nil {
		return events, err
	}
	dealer, err := domain.PlayDealerToCompletion(r.Dealer, t.shoe, t.rules.DealerHitsSoft17)
	if err != nil {
		t.fault(err)
		return events, fmt.Errorf("%w: %w", ErrRoundFaulted, err)
	}
	r.Dealer = dealer
	events = append(events, Event{
		Kind:    EventDealerPlayed,
		Payload: DealerPlayedPayload{RoundID: r.ID, Hand: dealer},
	})
	return t.settle(events, "dealer done")
}

// settle resolves every wager, credits the bankroll and records the round
// for the betting strategies.
func (t *Table) settle(events []Event, reason string) ([]Event, error) {
	r := t.round
	r.Dealer.Reveal()
	events, err := t.moveTo(events, domain.PhaseSettlement, reason)
	if err != nil {
		return events, err
	}

	dealerBJ := r.Dealer.Blackjack()
	summary := RoundSummary{
		RoundID:    r.ID,
		Number:     r.Number,
		Dealer:     r.Dealer,
		Hands:      append([]domain.Hand(nil), r.Hands...),
		InitialBet: r.Stake,
	}
	r.Results = r.Results[:0]
	for i, h := range r.Hands {
		result := domain.ResultSurrender
		if !h.Surrendered {
			result = domain.DetermineResult(h, r.Dealer)
		}
		bet := r.Bets[i]
		if err := bet.Settle(result, t.rules.BlackjackPayout); err != nil {
			return events, err
		}
		r.Results = append(r.Results, result)
		summary.Wagered += bet.Amount
		summary.Payout += bet.Payout
	}
	summary.Results = append([]domain.Result(nil), r.Results...)

	if r.Insurance != nil {
		if err := r.Insurance.SettleSide(domain.EvaluateInsurance(dealerBJ)); err != nil {
			return events, err
		}
		summary.SideWagered += r.Insurance.Amount
		summary.SidePayout += r.Insurance.Payout
	}
	up, _ := r.Dealer.UpCard()
	ctx := domain.SideBetContext{PlayerCards: r.initial, DealerUp: up, DealerBlackjack: dealerBJ}
	for i := range r.SideBets {
		w := &r.SideBets[i]
		sb, _ := domain.LookupSideBet(w.Kind)
		outcome := sb.Evaluate(ctx)
		if err := w.Bet.SettleSide(outcome); err != nil {
			return events, err
		}
		w.Outcome = &outcome
		summary.SideWagered += w.Bet.Amount
		summary.SidePayout += w.Bet.Payout
	}

	t.bankroll += summary.Payout + summary.SidePayout
	summary.Net = summary.Payout + summary.SidePayout - summary.Wagered - summary.SideWagered
	summary.Bankroll = t.bankroll
	t.history = append(t.history, betting.Record{Amount: summary.Wagered, Payout: summary.Payout})
	t.last = &summary
	t.logger.Info("round %s settled %v net %.2f bankroll %.2f", r.ID, summary.Results, summary.Net, t.bankroll)

	return append(events, Event{Kind: EventRoundSettled, Payload: RoundSettledPayload{Summary: summary}}), nil
}

func (t *Table) reshuffle() Event {
	previous := t.salt
	t.shoe.Reshuffle()
	t.burn()
	t.sealShoe()
	t.logger.Info("shoe %s shuffled", t.shoe.ID)
	return Event{
		Kind: EventShoeShuffled,
		Payload: ShoeShuffledPayload{
			ShoeID:       t.shoe.ID,
			Seal:         t.seal,
			PreviousSalt: previous,
			Remaining:    t.shoe.Remaining(),
		},
	}
}

// burn discards the top card of a freshly shuffled shoe. A full shoe holds
// at least one deck, so this fails only on an empty scripted shoe.
func (t *Table) burn() {
	if err := t.shoe.Burn(); err != nil {
		t.logger.Error("shoe %s: burn card: %v", t.shoe.ID, err)
	}
}

// sealShoe commits to the new card order before any of it is dealt. The
// salt is revealed when the shoe is retired.
func (t *Table) sealShoe() {
	t.salt = newID(t.rng)
	t.seal = ""
	if t.sealer == nil {
		return
	}
	token, err := t.sealer.Seal(t.shoe, t.salt)
	if err != nil {
		t.logger.Warn("sealing shoe %s: %v", t.shoe.ID, err)
		return
	}
	t.seal = token
}

func (r *Round) allBets() []*domain.Bet {
	out := append([]*domain.Bet(nil), r.Bets...)
	for _, w := range r.SideBets {
		out = append(out, w.Bet)
	}
	if r.Insurance != nil {
		out = append(out, r.Insurance)
	}
	return out
}

func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
