package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/advisor"
	"blackjack/internal/betting"
	"blackjack/internal/domain"
	"blackjack/internal/logging"
)

// SimulationConfig describes a Monte Carlo run. Every table gets its own
// shoe, rng and bankroll; nothing is shared between them.
type SimulationConfig struct {
	Rounds   int                `json:"rounds"`
	Tables   int                `json:"tables"`
	Seed     int64              `json:"seed"`
	Rules    domain.GameRules   `json:"rules"`
	Limits   domain.TableLimits `json:"limits"`
	Advisor  advisor.Kind       `json:"advisor"`
	Betting  betting.Kind       `json:"betting"`
	Config   betting.Config     `json:"betting_config"`
	Bankroll float64            `json:"bankroll"`
}

// SimulationReport aggregates the settled rounds of a run.
type SimulationReport struct {
	Rounds        int     `json:"rounds"`
	InitialBets   float64 `json:"initial_bets"`
	Wagered       float64 `json:"wagered"`
	Net           float64 `json:"net"`
	HouseEdge     float64 `json:"house_edge"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	Blackjacks    int     `json:"blackjacks"`
	Busts         int     `json:"busts"`
	Surrenders    int     `json:"surrenders"`
	Faults        int     `json:"faults"`
	Broke         int     `json:"broke"`
	FinalBankroll float64 `json:"final_bankroll"`
}

const unlimitedBankroll = 1e12

func (r *SimulationReport) merge(o SimulationReport) {
	r.Rounds += o.Rounds
	r.InitialBets += o.InitialBets
	r.Wagered += o.Wagered
	r.Net += o.Net
	r.Wins += o.Wins
	r.Losses += o.Losses
	r.Pushes += o.Pushes
	r.Blackjacks += o.Blackjacks
	r.Busts += o.Busts
	r.Surrenders += o.Surrenders
	r.Faults += o.Faults
	r.Broke += o.Broke
	r.FinalBankroll += o.FinalBankroll
}

func (r *SimulationReport) add(s RoundSummary) {
	r.Rounds++
	r.InitialBets += s.InitialBet
	r.Wagered += s.Wagered
	r.Net += s.Payout - s.Wagered
	for _, res := range s.Results {
		switch res {
		case domain.ResultBlackjack:
			r.Blackjacks++
			r.Wins++
		case domain.ResultWin:
			r.Wins++
		case domain.ResultPush:
			r.Pushes++
		case domain.ResultBust:
			r.Busts++
			r.Losses++
		case domain.ResultSurrender:
			r.Surrenders++
			r.Losses++
		default:
			r.Losses++
		}
	}
}

// Simulate plays cfg.Rounds rounds split across cfg.Tables independent
// tables, each on its own goroutine. The house edge is reported in percent
// of initial wagers.
func Simulate(ctx context.Context, cfg SimulationConfig, logger runtime.Logger) (SimulationReport, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.Rounds <= 0 {
		return SimulationReport{}, fmt.Errorf("simulation needs at least one round")
	}
	tables := max(1, min(cfg.Tables, cfg.Rounds))
	play := advisor.New(cfg.Advisor, logger)
	strategy, _ := betting.Resolve(logger, cfg.Betting, cfg.Config, cfg.Limits.Normalize())

	reports := make([]SimulationReport, tables)
	errs := make([]error, tables)
	var wg sync.WaitGroup
	for i := 0; i < tables; i++ {
		rounds := cfg.Rounds / tables
		if i < cfg.Rounds%tables {
			rounds++
		}
		wg.Add(1)
		go func(i, rounds int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			reports[i], errs[i] = simulateTable(ctx, cfg, rounds, play, strategy, rng)
		}(i, rounds)
	}
	wg.Wait()

	var total SimulationReport
	for _, r := range reports {
		total.merge(r)
	}
	if total.InitialBets > 0 {
		total.HouseEdge = -total.Net / total.InitialBets * 100
	}
	logger.Info("simulated %d rounds on %d tables: edge %.3f%%", total.Rounds, tables, total.HouseEdge)
	return total, errors.Join(errs...)
}

func simulateTable(ctx context.Context, cfg SimulationConfig, rounds int, play advisor.Advisor, strategy betting.Strategy, rng *rand.Rand) (SimulationReport, error) {
	bankroll := cfg.Bankroll
	if bankroll <= 0 {
		bankroll = unlimitedBankroll
	}
	t := NewTable(TableOptions{
		Rules:    cfg.Rules,
		Limits:   cfg.Limits,
		Bankroll: bankroll,
		Advisor:  play,
		Logger:   logging.Nop(),
	}, rng)

	var report SimulationReport
	for n := 0; n < rounds; n++ {
		if err := ctx.Err(); err != nil {
			report.FinalBankroll = t.Bankroll()
			return report, err
		}
		bet := betting.Clamp(strategy.NextBet(t.History(), t.Bankroll(), t.Limits()), t.Bankroll(), t.Limits())
		if bet < t.Limits().MinBet {
			report.Broke++
			break
		}
		summary, err := playRound(t, bet)
		if errors.Is(err, ErrRoundFaulted) {
			report.Faults++
			t.Abort("shoe exhausted")
			continue
		}
		if err != nil {
			report.FinalBankroll = t.Bankroll()
			return report, err
		}
		report.add(summary)
	}
	report.FinalBankroll = t.Bankroll()
	return report, nil
}

// playRound plays one round following the table's advisor and never takes
// insurance.
func playRound(t *Table, bet float64) (RoundSummary, error) {
	if _, err := t.PlaceBet(bet, nil); err != nil {
		return RoundSummary{}, err
	}
	if _, err := t.Deal(); err != nil {
		return RoundSummary{}, err
	}
	if t.round != nil && t.round.InsurancePending {
		if _, err := t.Insurance(false); err != nil {
			return RoundSummary{}, err
		}
	}
	for t.Phase() == domain.PhasePlayerTurn {
		advice, err := t.Advice()
		if err != nil {
			return RoundSummary{}, err
		}
		if _, err := t.Apply(advice.Action); err != nil {
			return RoundSummary{}, fmt.Errorf("applying %s: %w", advice.Action, err)
		}
	}
	summary, _ := t.LastRound()
	if _, err := t.NextRound(); err != nil {
		return summary, err
	}
	return summary, nil
}
