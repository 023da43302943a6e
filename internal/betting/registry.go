package betting

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/domain"
)

// Kind names a betting strategy.
type Kind string

const (
	KindFlat        Kind = "flat"
	KindMartingale  Kind = "martingale"
	KindParlay      Kind = "parlay"
	KindFibonacci   Kind = "fibonacci"
	KindDAlembert   Kind = "dalembert"
	KindOscarsGrind Kind = "oscars_grind"
	KindLabouchere  Kind = "labouchere"
)

var registry = map[Kind]func(Config) Strategy{
	KindFlat:        func(c Config) Strategy { return Flat{c} },
	KindMartingale:  func(c Config) Strategy { return Martingale{c} },
	KindParlay:      func(c Config) Strategy { return Parlay{c} },
	KindFibonacci:   func(c Config) Strategy { return Fibonacci{c} },
	KindDAlembert:   func(c Config) Strategy { return DAlembert{c} },
	KindOscarsGrind: func(c Config) Strategy { return OscarsGrind{c} },
	KindLabouchere:  func(c Config) Strategy { return Labouchere{c} },
}

// Kinds lists the registered strategies in a stable order.
func Kinds() []Kind {
	return []Kind{KindFlat, KindMartingale, KindParlay, KindFibonacci, KindDAlembert, KindOscarsGrind, KindLabouchere}
}

// Lookup builds the strategy registered under kind. An empty kind is flat.
func Lookup(kind Kind, cfg Config) (Strategy, error) {
	if kind == "" {
		kind = KindFlat
	}
	mk, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown betting strategy: %q", kind)
	}
	return mk(cfg), nil
}

// Resolve builds the strategy for kind and reports the kind actually used.
// An unknown kind logs a warning and bets flat at the table minimum.
func Resolve(logger runtime.Logger, kind Kind, cfg Config, limits domain.TableLimits) (Strategy, Kind) {
	s, err := Lookup(kind, cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("%v, betting table minimum", err)
		}
		return Flat{Config{BaseBet: limits.MinBet}}, KindFlat
	}
	if kind == "" {
		kind = KindFlat
	}
	return s, kind
}

// NextBet returns the clamped next wager for kind, falling back as Resolve
// does.
func NextBet(logger runtime.Logger, kind Kind, cfg Config, history []Record, bankroll float64, limits domain.TableLimits) float64 {
	s, _ := Resolve(logger, kind, cfg, limits)
	return Clamp(s.NextBet(history, bankroll, limits), bankroll, limits)
}
