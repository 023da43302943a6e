package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindTableResponse is the payload returned to clients looking for a seat.
type FindTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RpcFindTableHandler returns a blackjack table with its seat open, creating
// one when none is listed.
func RpcFindTableHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// +label.open:>=1 filters on the "open" key of the JSON label.
	query := fmt.Sprintf("+label.%s:%s +label.%s:>=1", MatchLabelKey_Game, matchLabelGame, MatchLabelKey_OpenSeats)
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("RpcFindTable [User:%s]: Failed to list matches: %v", userID, err)
		return "", runtime.NewError("Failed to list tables", codeInternal)
	}

	if len(matches) > 0 {
		logger.Info("RpcFindTable [User:%s]: Found existing table %s", userID, matches[0].MatchId)
		return respond(logger, FindTableResponse{MatchID: matches[0].MatchId})
	}

	// Seating happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameBlackjack, map[string]interface{}{})
	if err != nil {
		logger.Error("RpcFindTable [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("Failed to create table", codeInternal)
	}

	logger.Info("RpcFindTable [User:%s]: Created new table %s", userID, matchID)
	return respond(logger, FindTableResponse{MatchID: matchID, IsNew: true})
}
