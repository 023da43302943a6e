package ports

import "context"

// ChipsCurrency is the wallet key table chips are kept under.
const ChipsCurrency = "chips"

// WalletUpdate represents a single chip change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing play chips.
type EconomyPort interface {
	// GetBalance retrieves the current chip balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes.
	// This is used after each round to settle the seat's net result.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}

// StartingChipsPort grants a new player's first bankroll at most once.
type StartingChipsPort interface {
	// GrantStartingChipsOnce attempts the one-time grant.
	// Returns granted=false when the chips were already granted.
	GrantStartingChipsOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
