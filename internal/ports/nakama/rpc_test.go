package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"blackjack/internal/betting"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// fakeNakama overrides the few NakamaModule calls the adapter makes.
type fakeNakama struct {
	runtime.NakamaModule
	matches []*api.Match
	created []string
	wallets map[string]map[string]int64
	storage map[string]string
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	return f.matches, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, module)
	return "match-new", nil
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	wallet, _ := json.Marshal(f.wallets[userID])
	return &api.Account{Wallet: string(wallet)}, nil
}

func (f *fakeNakama) WalletsUpdate(ctx context.Context, updates []*runtime.WalletUpdate, updateLedger bool) ([]*runtime.WalletUpdateResult, error) {
	results := make([]*runtime.WalletUpdateResult, 0, len(updates))
	for _, u := range updates {
		if f.wallets[u.UserID] == nil {
			f.wallets[u.UserID] = map[string]int64{}
		}
		for k, v := range u.Changeset {
			f.wallets[u.UserID][k] += v
		}
		results = append(results, &runtime.WalletUpdateResult{UserID: u.UserID, Updated: f.wallets[u.UserID]})
	}
	return results, nil
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var objects []*api.StorageObject
	for _, r := range reads {
		if value, ok := f.storage[r.Collection+"/"+r.Key+"/"+r.UserID]; ok {
			objects = append(objects, &api.StorageObject{Collection: r.Collection, Key: r.Key, UserId: r.UserID, Value: value})
		}
	}
	return objects, nil
}

func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	for _, w := range storageWrites {
		if _, exists := f.storage[w.Collection+"/"+w.Key+"/"+w.UserID]; exists && w.Version == "*" {
			return nil, nil, runtime.ErrStorageRejectedVersion
		}
	}
	for _, w := range storageWrites {
		f.storage[w.Collection+"/"+w.Key+"/"+w.UserID] = w.Value
	}
	results, err := f.WalletsUpdate(ctx, walletUpdates, updateLedger)
	return nil, results, err
}

func callRPC(t *testing.T, fn rpcFunc, nk runtime.NakamaModule, payload string, out interface{}) error {
	t.Helper()
	raw, err := fn(context.Background(), noopLogger{}, nil, nk, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		t.Fatalf("response %q: %v", raw, err)
	}
	return nil
}

func rpcCode(err error) int {
	var rerr *runtime.Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return -1
}

func TestRpcFindTable(t *testing.T) {
	nk := &fakeNakama{matches: []*api.Match{{MatchId: "match-open"}}}
	var resp FindTableResponse
	if err := callRPC(t, RpcFindTableHandler, nk, "", &resp); err != nil {
		t.Fatalf("find table: %v", err)
	}
	if resp.MatchID != "match-open" || resp.IsNew {
		t.Fatalf("resp = %+v, want the listed table", resp)
	}

	nk.matches = nil
	if err := callRPC(t, RpcFindTableHandler, nk, "", &resp); err != nil {
		t.Fatalf("find table: %v", err)
	}
	if resp.MatchID != "match-new" || !resp.IsNew || len(nk.created) != 1 || nk.created[0] != MatchNameBlackjack {
		t.Fatalf("resp = %+v created = %v", resp, nk.created)
	}
}

func TestRpcAdvice(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		action  string
		total   int
	}{
		{"HardSixteenNoSurrender", `{"cards": ["TS", "6H"], "dealer_up": "KC"}`, "hit", 16},
		{"HardSixteenWithSurrender", `{"cards": ["TS", "6H"], "dealer_up": "KC", "flags": {"can_surrender": true}}`, "surrender", 16},
		{"Eights", `{"cards": ["8S", "8D"], "dealer_up": "6C"}`, "split", 16},
		{"SoftEighteenMimic", `{"cards": ["AS", "7D"], "dealer_up": "9C", "advisor": "mimic-dealer"}`, "stand", 18},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var resp adviceResponse
			if err := callRPC(t, RpcAdviceHandler, nil, test.payload, &resp); err != nil {
				t.Fatalf("advice: %v", err)
			}
			if string(resp.Action) != test.action || resp.Total != test.total || resp.Reason == "" {
				t.Fatalf("resp = %+v, want %s on %d", resp, test.action, test.total)
			}
		})
	}
}

func TestRpcAdvice_RejectsBadInput(t *testing.T) {
	for _, payload := range []string{
		`{"cards": ["TS"], "dealer_up": "KC"}`,
		`{"cards": ["TS", "XX"], "dealer_up": "KC"}`,
		`{"cards": ["TS", "6H"]}`,
		`{"cards": ["TS", "6H"], "dealer_up": "KC", "advisor": "oracle"}`,
		`not json`,
	} {
		var resp adviceResponse
		if err := callRPC(t, RpcAdviceHandler, nil, payload, &resp); rpcCode(err) != codeInvalidArgument {
			t.Errorf("payload %s: err = %v", payload, err)
		}
	}
}

func TestRpcNextBet(t *testing.T) {
	var resp nextBetResponse
	payload := `{"strategy": "martingale", "config": {"base_bet": 10}, "history": [{"amount": 10, "payout": 0}], "bankroll": 500}`
	if err := callRPC(t, RpcNextBetHandler, nil, payload, &resp); err != nil {
		t.Fatalf("next bet: %v", err)
	}
	if resp.Amount != 20 || resp.Strategy != "martingale" {
		t.Fatalf("resp = %+v, want 20 after one loss", resp)
	}

	if err := callRPC(t, RpcNextBetHandler, nil, `{"bankroll": 3}`, &resp); err != nil {
		t.Fatalf("next bet: %v", err)
	}
	if resp.Amount != 3 {
		t.Fatalf("amount = %v, want clamped to the bankroll", resp.Amount)
	}

}

func TestRpcNextBet_UnknownStrategyBetsFlatMinimum(t *testing.T) {
	logger := &recordingLogger{}
	raw, err := RpcNextBetHandler(context.Background(), logger, nil, nil, `{"strategy": "hunch", "config": {"base_bet": 50}, "bankroll": 500}`)
	if err != nil {
		t.Fatalf("next bet: %v", err)
	}
	var resp nextBetResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("response %q: %v", raw, err)
	}
	if resp.Strategy != betting.KindFlat || resp.Amount != 5 {
		t.Fatalf("resp = %+v, want flat at the table minimum", resp)
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("warnings = %v, want one fallback warning", logger.warnings)
	}
}

type recordingLogger struct {
	noopLogger
	warnings []string
}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func TestRpcHouseEdge(t *testing.T) {
	var resp houseEdgeResponse
	if err := callRPC(t, RpcHouseEdgeHandler, nil, "", &resp); err != nil {
		t.Fatalf("house edge: %v", err)
	}
	if math.Abs(resp.HouseEdge-0.50) > 1e-9 {
		t.Fatalf("default edge = %v, want 0.50", resp.HouseEdge)
	}

	if err := callRPC(t, RpcHouseEdgeHandler, nil, `{"rules": {"decks": 40, "dealer_hits_soft_17": true}}`, &resp); err != nil {
		t.Fatalf("house edge: %v", err)
	}
	if resp.Rules.Decks != 8 || math.Abs(resp.HouseEdge-0.74) > 1e-9 {
		t.Fatalf("resp = %+v, want 8 decks H17 at 0.74", resp)
	}
}

func TestRpcSideBets(t *testing.T) {
	var resp sideBetsResponse
	payload := `{"cards": ["QH", "QH"], "dealer_up": "AS", "dealer_blackjack": true}`
	if err := callRPC(t, RpcSideBetsHandler, nil, payload, &resp); err != nil {
		t.Fatalf("side bets: %v", err)
	}
	want := map[string]float64{
		"perfect_pairs": 30,
		"21+3":          1,
		"lucky_ladies":  1000,
		"insurance":     2,
	}
	if len(resp.Outcomes) != len(want) {
		t.Fatalf("outcomes = %+v", resp.Outcomes)
	}
	for _, o := range resp.Outcomes {
		if o.Multiplier != want[string(o.Kind)] {
			t.Errorf("%s pays %v, want %v", o.Kind, o.Multiplier, want[string(o.Kind)])
		}
	}

	if err := callRPC(t, RpcSideBetsHandler, nil, `{"cards": ["QH", "QH"], "dealer_up": "AS", "kinds": ["royal_match"]}`, &resp); rpcCode(err) != codeNotFound {
		t.Fatalf("unknown side bet err = %v", err)
	}
}
