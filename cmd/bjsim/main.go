// Command bjsim plays simulated rounds under the table configuration and
// compares advisors and betting strategies.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"blackjack/internal/advisor"
	"blackjack/internal/app"
	"blackjack/internal/betting"
	"blackjack/internal/config"
	"blackjack/internal/domain"
	"blackjack/internal/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "game config JSON")
	envFile := flag.String("env", ".env", "file of blackjack_* overrides")
	rounds := flag.Int("rounds", 100000, "rounds per run")
	tables := flag.Int("tables", 4, "tables played in parallel")
	seed := flag.Int64("seed", 1, "rng seed, 0 for time-seeded")
	advisors := flag.String("advisors", "basic,mimic-dealer,never-bust", "comma separated advisors")
	strategies := flag.String("strategies", "", "comma separated betting strategies, default the configured one")
	bankroll := flag.Float64("bankroll", 0, "bankroll per table, 0 for unlimited")
	level := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	logger := logging.NewTerminal(os.Stderr, *level)

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	kinds := splitList(*strategies)
	if len(kinds) == 0 {
		kinds = []string{string(cfg.Betting.Strategy)}
	}

	*seed = resolveSeed(*seed, time.Now)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pterm.DefaultHeader.WithFullWidth().Println("Blackjack simulation")
	pterm.Info.Printfln("%d decks, %s, %s payout, estimated house edge %.2f%%",
		cfg.Rules.Decks, soft17(cfg.Rules), payout(cfg.Rules), domain.EstimateHouseEdge(cfg.Rules))
	pterm.Info.Printfln("seed %d, table i plays seed+i", *seed)

	data := pterm.TableData{{"Advisor", "Betting", "Rounds", "Edge %", "Net", "W/L/P", "Blackjacks", "Busts", "Broke"}}
	for _, adv := range splitList(*advisors) {
		for _, kind := range kinds {
			sim := app.SimulationConfig{
				Rounds:   *rounds,
				Tables:   *tables,
				Seed:     *seed,
				Rules:    cfg.Rules,
				Limits:   cfg.Limits,
				Advisor:  advisor.Kind(adv),
				Betting:  betting.Kind(kind),
				Config:   cfg.Betting.Config,
				Bankroll: *bankroll,
			}
			spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(fmt.Sprintf("Playing %s with %s betting ...", adv, kind))
			report, err := app.Simulate(ctx, sim, logger)
			_ = spinner.Stop()
			if err != nil {
				pterm.Error.Printfln("%s/%s: %v", adv, kind, err)
				if errors.Is(err, context.Canceled) {
					os.Exit(130)
				}
				continue
			}
			data = append(data, []string{
				adv,
				kind,
				fmt.Sprint(report.Rounds),
				fmt.Sprintf("%.3f", report.HouseEdge),
				fmt.Sprintf("%.2f", report.Net),
				fmt.Sprintf("%d/%d/%d", report.Wins, report.Losses, report.Pushes),
				fmt.Sprint(report.Blackjacks),
				fmt.Sprint(report.Busts),
				fmt.Sprint(report.Broke),
			})
		}
	}

	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		logger.Error("failed to render report: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the JSON config and applies overrides from envFile when
// it exists.
func loadConfig(path, envFile string) (config.GameConfig, error) {
	if err := config.LoadGameConfig(path); err != nil {
		return config.GameConfig{}, err
	}
	cfg := config.GetGameConfig()

	env, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return cfg.ApplyEnv(env)
}

// resolveSeed replaces 0 with a clock-derived seed.
func resolveSeed(seed int64, now func() time.Time) int64 {
	if seed != 0 {
		return seed
	}
	return now().UnixNano()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func soft17(r domain.GameRules) string {
	if r.DealerHitsSoft17 {
		return "H17"
	}
	return "S17"
}

func payout(r domain.GameRules) string {
	switch r.BlackjackPayout {
	case domain.PayoutSixToFive:
		return "6:5"
	case domain.PayoutEvenMoney:
		return "1:1"
	default:
		return "3:2"
	}
}
