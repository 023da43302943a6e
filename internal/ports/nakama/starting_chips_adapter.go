package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blackjack/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	startingChipsCollection = "bankroll"
	startingChipsKey        = "starting_chips_v1"
)

// startingChipsMarker is stored once per user, owner readable.
type startingChipsMarker struct {
	Amount    int64  `json:"amount"`
	GrantedAt string `json:"granted_at"`
}

// NakamaStartingChipsAdapter funds a new player's first bankroll.
type NakamaStartingChipsAdapter struct {
	nk  runtime.NakamaModule
	now func() time.Time
}

func NewNakamaStartingChipsAdapter(nk runtime.NakamaModule) *NakamaStartingChipsAdapter {
	return &NakamaStartingChipsAdapter{nk: nk, now: time.Now}
}

// GrantStartingChipsOnce credits amount chips unless the user already holds
// a grant marker. The marker is created with version "*" in the same
// MultiUpdate as the credit, so a racing second grant is rejected.
func (a *NakamaStartingChipsAdapter) GrantStartingChipsOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	if amount <= 0 {
		return false, fmt.Errorf("amount must be positive")
	}

	granted, err := a.granted(ctx, userID)
	if err != nil || granted {
		return false, err
	}

	value, err := json.Marshal(startingChipsMarker{
		Amount:    amount,
		GrantedAt: a.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal starting chips marker: %w", err)
	}

	write := &runtime.StorageWrite{
		Collection:      startingChipsCollection,
		Key:             startingChipsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         "*",
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
	credit := &runtime.WalletUpdate{
		UserID:    userID,
		Changeset: map[string]int64{ports.ChipsCurrency: amount},
		Metadata:  metadata,
	}
	_, _, err = a.nk.MultiUpdate(ctx, nil, []*runtime.StorageWrite{write}, nil, []*runtime.WalletUpdate{credit}, true)
	switch {
	case errors.Is(err, runtime.ErrStorageRejectedVersion):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to grant starting chips: %w", err)
	}
	return true, nil
}

func (a *NakamaStartingChipsAdapter) granted(ctx context.Context, userID string) (bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: startingChipsCollection,
		Key:        startingChipsKey,
		UserID:     userID,
	}})
	if err != nil {
		return false, fmt.Errorf("failed to read starting chips marker: %w", err)
	}
	return len(objects) > 0, nil
}

var _ ports.StartingChipsPort = (*NakamaStartingChipsAdapter)(nil)
