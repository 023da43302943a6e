package nakama

import (
	"context"
	"database/sql"
	"sync"

	"blackjack/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	cfgMu     sync.RWMutex
	moduleCfg = config.Default()
)

// gameConfig returns the configuration loaded by InitModule.
func gameConfig() config.GameConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return moduleCfg
}

func setGameConfig(c config.GameConfig) {
	cfgMu.Lock()
	moduleCfg = c
	cfgMu.Unlock()
}

// InitModule wires RPCs, hooks and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(config.DefaultPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		var err error
		if cfg, err = cfg.ApplyEnv(env); err != nil {
			logger.Warn("InitModule: Ignoring invalid environment overrides: %v", err)
		}
	}
	setGameConfig(cfg)
	if cfg.SealSecret == "" {
		logger.Warn("InitModule: blackjack_seal_secret not set, shoes will not be sealed.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBlackjack, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Blackjack Go module loaded: %d decks, %s advisor.", cfg.Rules.Decks, cfg.Advisor)
	return nil
}
