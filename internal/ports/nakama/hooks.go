package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"blackjack/internal/ports"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice grants the configured starting bankroll to
// accounts created by this authentication.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}
	return grantStartingChips(ctx, logger, NewNakamaStartingChipsAdapter(nk), userID)
}

func grantStartingChips(ctx context.Context, logger runtime.Logger, grants ports.StartingChipsPort, userID string) error {
	amount := int64(math.Floor(gameConfig().StartingBankroll))
	if amount <= 0 {
		return nil
	}
	granted, err := grants.GrantStartingChipsOnce(ctx, userID, amount, map[string]interface{}{
		"reason": "starting_chips",
	})
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Granting starting chips to %s failed: %v", userID, err)
		return err
	}
	if !granted {
		logger.Info("AfterAuthenticateDevice: Starting chips already granted to %s", userID)
		return nil
	}
	logger.Info("AfterAuthenticateDevice: Granted %d chips to new user %s", amount, userID)
	return nil
}

// extractUserIDFromToken reads the uid claim of a session token. The token
// was just issued by the server, so its signature is not checked here.
func extractUserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("token claims missing uid")
	}
	return uid, nil
}
