package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"blackjack/internal/app"
	"blackjack/internal/domain"
	"blackjack/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients int
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: len(presences)})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) last(opCode int64) (sentMessage, bool) {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i], true
		}
	}
	return sentMessage{}, false
}

type mockEconomy struct {
	balances map[string]int64
	updates  []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	if balance, ok := me.balances[userID]; ok {
		return balance, nil
	}
	return 0, errors.New("balance not found")
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, u := range updates {
		me.balances[u.UserID] += u.Amount
	}
	me.updates = append(me.updates, updates...)
	return nil
}

type mockPresence struct {
	userID string
}

func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return false }
func (p mockPresence) GetUsername() string               { return p.userID }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }

type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

func msg(userID string, opCode int64, data string) runtime.MatchData {
	return mockMatchData{mockPresence: mockPresence{userID: userID}, opCode: opCode, data: []byte(data)}
}

// newSeatedMatch returns a handler with one seated player holding 500 chips.
func newSeatedMatch(t *testing.T) (*matchHandler, *MatchState, *mockDispatcher, *mockEconomy) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	handler := &matchHandler{now: func() time.Time { return now }}

	raw, _, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	state, ok := raw.(*MatchState)
	if !ok || label == "" {
		t.Fatalf("MatchInit returned %T with label %q", raw, label)
	}
	economy := &mockEconomy{balances: map[string]int64{"user-1": 500}}
	state.Economy = economy

	dispatcher := &mockDispatcher{}
	p := mockPresence{userID: "user-1"}
	if _, ok, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, p, nil); !ok {
		t.Fatalf("join rejected: %s", reason)
	}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{p})
	return handler, state, dispatcher, economy
}

func useCards(t *testing.T, state *MatchState, cards ...domain.Card) {
	t.Helper()
	if err := state.Table.UseShoe(domain.NewShoeFromCards(cards, 1, rand.New(rand.NewSource(1)))); err != nil {
		t.Fatalf("use shoe: %v", err)
	}
}

func TestMatchLabel_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		open     int
		phase    domain.Phase
		expected string
	}{
		{
			name:     "OpenTable",
			open:     1,
			phase:    domain.PhaseBetting,
			expected: `{"game":"blackjack","open":1,"phase":"betting"}`,
		},
		{
			name:     "SeatTaken",
			open:     0,
			phase:    domain.PhasePlayerTurn,
			expected: `{"game":"blackjack","open":0,"phase":"player_turn"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payload, err := encodeLabel(test.open, test.phase)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			var compact bytes.Buffer
			if err := json.Compact(&compact, []byte(payload)); err != nil {
				t.Fatalf("Failed to compact label JSON: %v", err)
			}
			if compact.String() != test.expected {
				t.Errorf("Got %s, want %s", compact.String(), test.expected)
			}
		})
	}
}

func TestMatchJoin_SeatsOnePlayer(t *testing.T) {
	handler, state, dispatcher, _ := newSeatedMatch(t)

	if state.UserID != "user-1" || state.Table.Bankroll() != 500 || state.Synced != 500 {
		t.Fatalf("seat = %q bankroll = %v synced = %d", state.UserID, state.Table.Bankroll(), state.Synced)
	}
	if len(dispatcher.labels) != 1 || state.GetOpenSeatsCount() != 0 {
		t.Fatalf("label updates = %v", dispatcher.labels)
	}
	if _, ok := dispatcher.last(OpTableState); !ok {
		t.Fatalf("seated player did not receive the table state")
	}

	other := mockPresence{userID: "user-2"}
	if _, ok, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, other, nil); ok {
		t.Fatalf("second player should be rejected")
	}
	if _, ok, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "user-1"}, nil); !ok {
		t.Fatalf("seated player should be able to reconnect")
	}
}

func TestMatchJoin_FallsBackToStartingChips(t *testing.T) {
	handler := newMatchHandler()
	raw, _, _ := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	state := raw.(*MatchState)
	state.Economy = &mockEconomy{balances: map[string]int64{}}

	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, &mockDispatcher{}, 0, state, []runtime.Presence{mockPresence{userID: "ghost"}})
	if state.Economy != nil {
		t.Fatalf("economy should be detached after a failed wallet read")
	}
	if state.Table.Bankroll() != gameConfig().StartingBankroll {
		t.Fatalf("bankroll = %v, want starting chips", state.Table.Bankroll())
	}
}

func TestMatchLoop_PlaysRoundAndSettlesWallet(t *testing.T) {
	handler, state, dispatcher, economy := newSeatedMatch(t)
	useCards(t, state,
		domain.NewCard(domain.Ten, domain.Spades), domain.NewCard(domain.Nine, domain.Hearts),
		domain.NewCard(domain.Queen, domain.Clubs), domain.NewCard(domain.Eight, domain.Diamonds))

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		msg("user-1", OpPlaceBet, `{"amount": 10}`),
		msg("user-1", OpDeal, ""),
		msg("user-1", OpStand, ""),
	})

	settled, ok := dispatcher.last(OpRoundSettled)
	if !ok {
		t.Fatalf("no round_settled broadcast")
	}
	var body struct {
		Summary app.RoundSummary `json:"summary"`
	}
	if err := json.Unmarshal(settled.data, &body); err != nil {
		t.Fatalf("settled payload: %v", err)
	}
	if body.Summary.Net != 10 || len(body.Summary.Results) != 1 || body.Summary.Results[0] != domain.ResultWin {
		t.Fatalf("summary = %+v", body.Summary)
	}
	if len(economy.updates) != 1 || economy.updates[0].Amount != 10 || economy.balances["user-1"] != 510 {
		t.Fatalf("wallet updates = %+v", economy.updates)
	}

	// Auto-advance clears the round and waits in cleanup until the pause ends.
	if state.Table.Phase() != domain.PhaseCleanup {
		t.Fatalf("phase = %s, want cleanup", state.Table.Phase())
	}
	start := handler.now()
	handler.now = func() time.Time { return start.Add(time.Duration(gameConfig().AutoAdvanceSeconds) * time.Second) }
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, nil)
	if state.Table.Phase() != domain.PhaseBetting {
		t.Fatalf("phase = %s, want betting", state.Table.Phase())
	}
}

func TestMatchLoop_SendsErrors(t *testing.T) {
	tests := []struct {
		name   string
		opCode int64
		data   string
		code   int
	}{
		{name: "HitWhileBetting", opCode: OpHit, code: codeFailedPrecondition},
		{name: "MalformedBet", opCode: OpPlaceBet, data: "nope", code: codeInvalidArgument},
		{name: "BetUnderMinimum", opCode: OpPlaceBet, data: `{"amount": 1}`, code: codeInvalidArgument},
		{name: "BetOverBankroll", opCode: OpPlaceBet, data: `{"amount": 400, "side_bets": {"21+3": 100, "perfect_pairs": 100}}`, code: codeFailedPrecondition},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler, state, dispatcher, _ := newSeatedMatch(t)
			handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
				msg("user-1", test.opCode, test.data),
			})
			sent, ok := dispatcher.last(OpGameError)
			if !ok {
				t.Fatalf("no error sent")
			}
			var ge gameError
			if err := json.Unmarshal(sent.data, &ge); err != nil {
				t.Fatalf("error payload: %v", err)
			}
			if ge.Code != test.code || sent.recipients != 1 {
				t.Fatalf("error = %+v to %d recipients, want code %d", ge, sent.recipients, test.code)
			}
		})
	}
}

func TestMatchLoop_IgnoresStrangers(t *testing.T) {
	handler, state, dispatcher, _ := newSeatedMatch(t)
	before := len(dispatcher.messages)
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		msg("user-2", OpPlaceBet, `{"amount": 10}`),
	})
	if len(dispatcher.messages) != before || state.Table.RoundInFlight() {
		t.Fatalf("message from an unseated user was handled")
	}
}

func TestMatchLoop_SendsAdvicePrivately(t *testing.T) {
	handler, state, dispatcher, _ := newSeatedMatch(t)
	useCards(t, state,
		domain.NewCard(domain.Eight, domain.Spades), domain.NewCard(domain.Six, domain.Hearts),
		domain.NewCard(domain.Eight, domain.Clubs), domain.NewCard(domain.Ten, domain.Diamonds))

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		msg("user-1", OpPlaceBet, `{"amount": 10}`),
		msg("user-1", OpDeal, ""),
		msg("user-1", OpRequestAdvice, ""),
	})
	sent, ok := dispatcher.last(OpAdvice)
	if !ok {
		t.Fatalf("no advice sent")
	}
	var advice struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(sent.data, &advice); err != nil || advice.Action != "split" {
		t.Fatalf("advice = %s (%v)", sent.data, err)
	}
}

func TestMatchLeave_RefundsAndTerminates(t *testing.T) {
	handler, state, dispatcher, economy := newSeatedMatch(t)
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.MatchData{
		msg("user-1", OpPlaceBet, `{"amount": 25}`),
	})
	if state.Table.Bankroll() != 475 {
		t.Fatalf("bankroll = %v after bet", state.Table.Bankroll())
	}

	next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{mockPresence{userID: "user-1"}})
	if next != nil {
		t.Fatalf("table should terminate when its player leaves")
	}
	if state.Table.Bankroll() != 500 || len(economy.updates) != 0 {
		t.Fatalf("bankroll = %v updates = %+v", state.Table.Bankroll(), economy.updates)
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{app.ErrBetOutOfLimits, codeInvalidArgument},
		{app.ErrInsurancePending, codeFailedPrecondition},
		{domain.ErrHandTerminal, codeFailedPrecondition},
		{errors.New("boom"), codeInternal},
	}
	for _, test := range tests {
		if got := errorCode(test.err); got != test.want {
			t.Errorf("errorCode(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}
