package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
)

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := []struct {
		id string
		fn rpcFunc
	}{
		{RpcFindTable, RpcFindTableHandler},
		{RpcAdvice, RpcAdviceHandler},
		{RpcNextBet, RpcNextBetHandler},
		{RpcHouseEdge, RpcHouseEdgeHandler},
		{RpcSideBets, RpcSideBetsHandler},
	}
	for _, rpc := range rpcs {
		if err := initializer.RegisterRpc(rpc.id, rpc.fn); err != nil {
			return err
		}
	}
	return nil
}

// decodeRequest unmarshals a JSON payload over the defaults already in v.
// An empty payload keeps the defaults.
func decodeRequest(payload string, v interface{}) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	return nil
}

func respond(logger runtime.Logger, v interface{}) (string, error) {
	data, err := encodePayload(v)
	if err != nil {
		logger.Error("Failed to encode RPC response: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(data), nil
}
