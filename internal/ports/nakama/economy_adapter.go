package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"blackjack/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaEconomyAdapter keeps table bankrolls in the chips currency of the
// Nakama wallet.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// GetBalance returns the user's chips. An empty wallet holds none.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	wallet, err := decodeWallet(account.Wallet)
	if err != nil {
		return 0, err
	}
	return wallet[ports.ChipsCurrency], nil
}

// UpdateBalances writes every non-zero change in one ledgered batch, so a
// settlement lands completely or not at all.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	batch := make([]*runtime.WalletUpdate, 0, len(updates))
	for _, u := range updates {
		if u.Amount == 0 {
			continue
		}
		batch = append(batch, &runtime.WalletUpdate{
			UserID:    u.UserID,
			Changeset: map[string]int64{ports.ChipsCurrency: u.Amount},
			Metadata:  u.Metadata,
		})
	}
	if len(batch) == 0 {
		return nil
	}
	if _, err := a.nk.WalletsUpdate(ctx, batch, true); err != nil {
		return fmt.Errorf("failed to update %d wallets: %w", len(batch), err)
	}
	return nil
}

func decodeWallet(raw string) (map[string]int64, error) {
	wallet := map[string]int64{}
	if raw == "" {
		return wallet, nil
	}
	if err := json.Unmarshal([]byte(raw), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	return wallet, nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
