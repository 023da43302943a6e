package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"blackjack/internal/advisor"
	"blackjack/internal/betting"
	"blackjack/internal/domain"
)

// DefaultPath is where the Nakama module looks for the game configuration.
const DefaultPath = "data/blackjack_config.json"

// EnvPrefix marks runtime environment keys that override the file.
const EnvPrefix = "blackjack_"

// BettingConfig picks the progression the house bot and RPCs suggest.
type BettingConfig struct {
	Strategy betting.Kind `json:"strategy"`
	betting.Config
}

type GameConfig struct {
	Rules              domain.GameRules   `json:"rules"`
	Limits             domain.TableLimits `json:"limits"`
	Betting            BettingConfig      `json:"betting"`
	Advisor            advisor.Kind       `json:"advisor"`
	AutoAdvanceSeconds int                `json:"auto_advance_seconds"`
	StartingBankroll   float64            `json:"starting_bankroll"`
	SealSecret         string             `json:"seal_secret"`
	SealIssuer         string             `json:"seal_issuer"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default is the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		Rules:              domain.DefaultRules(),
		Limits:             domain.DefaultLimits(),
		Betting:            BettingConfig{Strategy: betting.KindFlat},
		Advisor:            advisor.KindBasic,
		AutoAdvanceSeconds: 3,
		StartingBankroll:   1000,
		SealIssuer:         "blackjack",
	}
}

// Parse decodes data over the defaults and normalizes the result. Out of
// range values are clamped, never rejected.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return c.Normalize(), nil
}

// Normalize clamps rules and limits and fills empty choices.
func (c GameConfig) Normalize() GameConfig {
	c.Rules = c.Rules.Normalize()
	c.Limits = c.Limits.Normalize()
	if c.Betting.Strategy == "" {
		c.Betting.Strategy = betting.KindFlat
	}
	if c.Advisor == "" {
		c.Advisor = advisor.KindBasic
	}
	c.AutoAdvanceSeconds = max(0, c.AutoAdvanceSeconds)
	c.StartingBankroll = max(0, c.StartingBankroll)
	if c.SealIssuer == "" {
		c.SealIssuer = "blackjack"
	}
	return c
}

// AutoAdvance is the cleanup pause between rounds.
func (c GameConfig) AutoAdvance() time.Duration {
	return time.Duration(c.AutoAdvanceSeconds) * time.Second
}

// ApplyEnv overrides fields from runtime environment keys such as
// blackjack_decks or blackjack_seal_secret. Keys that fail to parse are
// skipped and reported together; the rest still apply.
func (c GameConfig) ApplyEnv(env map[string]string) (GameConfig, error) {
	var errs []error
	for key, raw := range env {
		name, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}
		if err := c.set(name, strings.TrimSpace(raw)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return c.Normalize(), errors.Join(errs...)
}

func (c *GameConfig) set(name, raw string) error {
	switch name {
	case "decks":
		return parseInto(&c.Rules.Decks, raw, strconv.Atoi)
	case "dealer_hits_soft_17":
		return parseInto(&c.Rules.DealerHitsSoft17, raw, strconv.ParseBool)
	case "blackjack_payout":
		return parseInto(&c.Rules.BlackjackPayout, raw, parseFloat)
	case "double_allowed":
		return parseInto(&c.Rules.DoubleAllowed, raw, strconv.ParseBool)
	case "double_after_split":
		return parseInto(&c.Rules.DoubleAfterSplit, raw, strconv.ParseBool)
	case "resplit_aces":
		return parseInto(&c.Rules.ResplitAces, raw, strconv.ParseBool)
	case "hit_split_aces":
		return parseInto(&c.Rules.HitSplitAces, raw, strconv.ParseBool)
	case "surrender_allowed":
		return parseInto(&c.Rules.SurrenderAllowed, raw, strconv.ParseBool)
	case "insurance_allowed":
		return parseInto(&c.Rules.InsuranceAllowed, raw, strconv.ParseBool)
	case "max_splits":
		return parseInto(&c.Rules.MaxSplits, raw, strconv.Atoi)
	case "penetration":
		return parseInto(&c.Rules.Penetration, raw, parseFloat)
	case "min_bet":
		return parseInto(&c.Limits.MinBet, raw, parseFloat)
	case "max_bet":
		return parseInto(&c.Limits.MaxBet, raw, parseFloat)
	case "min_side_bet":
		return parseInto(&c.Limits.MinSideBet, raw, parseFloat)
	case "max_side_bet":
		return parseInto(&c.Limits.MaxSideBet, raw, parseFloat)
	case "auto_advance_seconds":
		return parseInto(&c.AutoAdvanceSeconds, raw, strconv.Atoi)
	case "starting_bankroll":
		return parseInto(&c.StartingBankroll, raw, parseFloat)
	case "advisor":
		c.Advisor = advisor.Kind(raw)
	case "betting_strategy":
		c.Betting.Strategy = betting.Kind(raw)
	case "seal_secret":
		c.SealSecret = raw
	case "seal_issuer":
		c.SealIssuer = raw
	}
	return nil
}

// parseInto assigns only when raw parses.
func parseInto[T any](dst *T, raw string, parse func(string) (T, error)) error {
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseFloat(raw string) (float64, error) { return strconv.ParseFloat(raw, 64) }

// LoadGameConfig loads the game configuration from the given path. A
// missing file leaves the defaults in place.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			c := Default()
			cfg = &c
			return
		}
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults
// before a successful load.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}
