package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"blackjack/internal/advisor"
	"blackjack/internal/app"
	"blackjack/internal/domain"
	"blackjack/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const tickRate = 1

// MatchState holds the authoritative runtime state for one single-seat table.
type MatchState struct {
	UserID        string            `json:"user_id"` // seated player, empty while the seat is open
	Presence      runtime.Presence  `json:"-"`
	Table         *app.Table        `json:"-"`
	Economy       ports.EconomyPort `json:"-"`      // nil when chips are not backed by the wallet
	Synced        int64             `json:"synced"` // whole chips already written to the wallet
	Tick          int64             `json:"tick"`
	AutoNextRound bool              `json:"auto_next_round"`
	Label         string            `json:"label"`
}

// GetOpenSeatsCount reports 1 while nobody is seated.
func (ms *MatchState) GetOpenSeatsCount() int {
	if ms.UserID == "" {
		return 1
	}
	return 0
}

type placeBetRequest struct {
	Amount   float64                        `json:"amount"`
	SideBets map[domain.SideBetKind]float64 `json:"side_bets"`
}

type insuranceRequest struct {
	Take bool `json:"take"`
}

type gameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var opActions = map[int64]advisor.Action{
	OpHit:       advisor.Hit,
	OpStand:     advisor.Stand,
	OpDouble:    advisor.Double,
	OpSplit:     advisor.Split,
	OpSurrender: advisor.Surrender,
}

var errInvalidPayload = errors.New("invalid payload")

type matchHandler struct {
	now func() time.Time
}

func newMatchHandler() *matchHandler {
	return &matchHandler{now: time.Now}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := gameConfig()
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	var sealer *app.ShoeSealService
	if cfg.SealSecret != "" {
		sealer = app.NewShoeSealService(cfg.SealSecret, cfg.SealIssuer)
	}
	table := app.NewTable(app.TableOptions{
		ID:          matchID,
		Rules:       cfg.Rules,
		Limits:      cfg.Limits,
		AutoAdvance: cfg.AutoAdvance(),
		Advisor:     advisor.New(cfg.Advisor, logger),
		Sealer:      sealer,
		Logger:      logger,
		Clock:       func() time.Time { return mh.now() },
	}, nil)

	state := &MatchState{
		Table:         table,
		Economy:       NewNakamaEconomyAdapter(nk),
		AutoNextRound: cfg.AutoAdvance() > 0,
	}

	label, err := encodeLabel(state.GetOpenSeatsCount(), table.Phase())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label
	logger.Debug("MatchInit: Table %s ready.", table.ID)
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.UserID != "" && matchState.UserID != presence.GetUserId() {
		return state, false, "Table full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		switch matchState.UserID {
		case p.GetUserId():
			logger.Debug("MatchJoin: User %s reconnected.", p.GetUserId())
		case "":
			matchState.UserID = p.GetUserId()
			mh.loadBankroll(ctx, matchState, logger)
		default:
			logger.Warn("MatchJoin: User %s joined but the seat is taken.", p.GetUserId())
			continue
		}
		matchState.Presence = p
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendState(matchState, dispatcher, logger)
	return matchState
}

// loadBankroll buys the seated player in with their whole wallet. Without a
// readable wallet the seat plays on unbacked starting chips.
func (mh *matchHandler) loadBankroll(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Economy != nil {
		balance, err := state.Economy.GetBalance(ctx, state.UserID)
		if err == nil {
			state.Table.Deposit(float64(balance))
			state.Synced = balance
			logger.Info("MatchJoin: User %s seated with %d chips.", state.UserID, balance)
			return
		}
		logger.Warn("MatchJoin: Could not read wallet for %s, using starting chips: %v", state.UserID, err)
		state.Economy = nil
	}
	state.Table.Deposit(gameConfig().StartingBankroll)
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() != matchState.UserID {
			continue
		}
		mh.closeSeat(ctx, matchState, dispatcher, logger, "player left")
		logger.Info("MatchLeave: Terminating table after %s left.", p.GetUserId())
		return nil
	}
	return matchState
}

// closeSeat refunds any unsettled round and settles the wallet.
func (mh *matchHandler) closeSeat(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, reason string) {
	if state.Table.RoundInFlight() || state.Table.Faulted() {
		state.Table.Abort(reason)
	}
	mh.syncWallet(ctx, state, logger)
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.UserID {
			logger.Warn("MatchLoop: Ignoring message from unseated user %s", msg.GetUserId())
			continue
		}
		events, err := mh.handleMessage(matchState, dispatcher, logger, msg)
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
		if err != nil {
			logger.Warn("MatchLoop: User %s op %d failed: %v", msg.GetUserId(), msg.GetOpCode(), err)
			mh.sendError(matchState, dispatcher, logger, errorCode(err), err.Error())
			if errors.Is(err, app.ErrRoundFaulted) {
				mh.broadcastEvents(ctx, matchState, dispatcher, logger, matchState.Table.Abort("shoe exhausted"))
			}
		}
	}

	if matchState.AutoNextRound && matchState.Table.Phase() == domain.PhaseSettlement {
		events, err := matchState.Table.NextRound()
		if err != nil {
			logger.Error("MatchLoop: Failed to clear round: %v", err)
		}
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
	}
	mh.broadcastEvents(ctx, matchState, dispatcher, logger, matchState.Table.Tick(mh.now()))

	return matchState
}

func (mh *matchHandler) handleMessage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) ([]app.Event, error) {
	table := state.Table
	if action, ok := opActions[msg.GetOpCode()]; ok {
		return table.Apply(action)
	}

	switch msg.GetOpCode() {
	case OpPlaceBet:
		var req placeBetRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, errInvalidPayload
		}
		return table.PlaceBet(req.Amount, req.SideBets)
	case OpDeal:
		return table.Deal()
	case OpInsurance:
		var req insuranceRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, errInvalidPayload
		}
		return table.Insurance(req.Take)
	case OpNextRound:
		return table.NextRound()
	case OpRequestState:
		mh.sendState(state, dispatcher, logger)
		return nil, nil
	case OpRequestAdvice:
		advice, err := table.Advice()
		if err != nil {
			return nil, err
		}
		mh.sendPrivate(state, dispatcher, logger, OpAdvice, advice)
		return nil, nil
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return nil, nil
	}
}

// broadcastEvents handles the conversion and dispatching of table events to Nakama.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, ok := eventOpCodes[ev.Kind]
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}
		data, err := encodePayload(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if uid == state.UserID && state.Presence != nil {
					recipients = append(recipients, state.Presence)
				}
			}
			// Targeted events never fall back to a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}
		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
		}

		switch ev.Kind {
		case app.EventRoundSettled, app.EventRoundAborted:
			mh.syncWallet(ctx, state, logger)
		case app.EventPhaseChanged:
			mh.updateLabel(state, dispatcher, logger)
		}
	}
}

// syncWallet writes the whole-chip change since the last sync. Fractional
// chips from 3:2 payouts stay on the table until they add up.
func (mh *matchHandler) syncWallet(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Economy == nil || state.UserID == "" {
		return
	}
	whole := int64(math.Floor(state.Table.Bankroll()))
	delta := whole - state.Synced
	if delta == 0 {
		return
	}
	update := ports.WalletUpdate{
		UserID: state.UserID,
		Amount: delta,
		Metadata: map[string]interface{}{
			"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
			"table_id": state.Table.ID,
			"reason":   "round_settlement",
		},
	}
	if err := state.Economy.UpdateBalances(ctx, []ports.WalletUpdate{update}); err != nil {
		logger.Error("Failed to update balance for %s: %v", state.UserID, err)
		return
	}
	state.Synced = whole
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.sendPrivate(state, dispatcher, logger, OpTableState, state.Table.State())
}

// sendError sends a game error to the seated player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.sendPrivate(state, dispatcher, logger, OpGameError, gameError{Code: code, Message: message})
}

func (mh *matchHandler) sendPrivate(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload interface{}) {
	if state.Presence == nil {
		logger.Warn("Cannot send op %d: no seated presence", opCode)
		return
	}
	data, err := encodePayload(payload)
	if err != nil {
		logger.Error("Failed to marshal op %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send op %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state.GetOpenSeatsCount(), state.Table.Phase())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.Label = label
}

// errorCode maps table errors onto gRPC status codes for clients.
func errorCode(err error) int {
	switch {
	case errors.Is(err, errInvalidPayload),
		errors.Is(err, app.ErrBetOutOfLimits),
		errors.Is(err, app.ErrUnknownSideBet):
		return codeInvalidArgument
	case errors.Is(err, app.ErrActionNotAllowed),
		errors.Is(err, app.ErrInsurancePending),
		errors.Is(err, app.ErrInsufficientBankroll),
		errors.Is(err, app.ErrNoActiveHand),
		errors.Is(err, app.ErrRoundFaulted),
		errors.Is(err, domain.ErrInvariantViolation):
		return codeFailedPrecondition
	default:
		return codeInternal
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		mh.closeSeat(ctx, matchState, dispatcher, logger, "server shutdown")
	}
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
