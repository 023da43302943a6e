package nakama

import (
	"context"
	"database/sql"

	"blackjack/internal/advisor"
	"blackjack/internal/betting"
	"blackjack/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

type adviceRequest struct {
	Cards    []string       `json:"cards"`
	DealerUp string         `json:"dealer_up"`
	Advisor  advisor.Kind   `json:"advisor"`
	Flags    *advisor.Flags `json:"flags"`
}

type adviceResponse struct {
	advisor.Advice
	Total int  `json:"total"`
	Soft  bool `json:"soft"`
}

// RpcAdviceHandler recommends an action for a hand against a dealer up-card.
// Without explicit flags the table rules decide what the hand may do.
// Payload: {"cards": ["AS", "7H"], "dealer_up": "9C", "advisor": "basic"}
func RpcAdviceHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	cfg := gameConfig()
	req := adviceRequest{Advisor: cfg.Advisor}
	if err := decodeRequest(payload, &req); err != nil {
		return "", err
	}

	cards, err := domain.ParseCards(req.Cards)
	if err != nil || len(cards) < 2 {
		return "", runtime.NewError("At least two valid cards required", codeInvalidArgument)
	}
	up, err := domain.ParseCard(req.DealerUp)
	if err != nil {
		return "", runtime.NewError("Valid dealer up-card required", codeInvalidArgument)
	}
	play, err := advisor.Lookup(req.Advisor)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	hand := domain.NewHand(cards...)
	flags := rulesFlags(cfg.Rules, hand)
	if req.Flags != nil {
		flags = *req.Flags
	}
	return respond(logger, adviceResponse{
		Advice: play.Recommend(hand, up, flags),
		Total:  hand.Best(),
		Soft:   hand.Soft(),
	})
}

// rulesFlags is what an unsplit hand may do under rules.
func rulesFlags(rules domain.GameRules, hand domain.Hand) advisor.Flags {
	two := len(hand.Cards) == 2
	return advisor.Flags{
		CanDouble:        rules.DoubleAllowed && two,
		CanSplit:         hand.Pair(),
		CanSurrender:     rules.SurrenderAllowed && two,
		DoubleAfterSplit: rules.DoubleAfterSplit,
		DealerHitsSoft17: rules.DealerHitsSoft17,
	}
}

type nextBetRequest struct {
	Strategy betting.Kind       `json:"strategy"`
	Config   betting.Config     `json:"config"`
	History  []betting.Record   `json:"history"`
	Bankroll float64            `json:"bankroll"`
	Limits   domain.TableLimits `json:"limits"`
}

type nextBetResponse struct {
	Strategy betting.Kind `json:"strategy"`
	Amount   float64      `json:"amount"`
}

// RpcNextBetHandler runs a betting progression over a settled history.
// The response names the strategy actually used.
// Payload: {"strategy": "martingale", "history": [{"amount": 10, "payout": 0}], "bankroll": 500}
func RpcNextBetHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	cfg := gameConfig()
	req := nextBetRequest{
		Strategy: cfg.Betting.Strategy,
		Config:   cfg.Betting.Config,
		Bankroll: cfg.StartingBankroll,
		Limits:   cfg.Limits,
	}
	if err := decodeRequest(payload, &req); err != nil {
		return "", err
	}
	limits := req.Limits.Normalize()
	strategy, effective := betting.Resolve(logger, req.Strategy, req.Config, limits)
	amount := betting.Clamp(strategy.NextBet(req.History, req.Bankroll, limits), req.Bankroll, limits)
	return respond(logger, nextBetResponse{Strategy: effective, Amount: amount})
}

type houseEdgeRequest struct {
	Rules domain.GameRules `json:"rules"`
}

type houseEdgeResponse struct {
	HouseEdge float64          `json:"house_edge"`
	Rules     domain.GameRules `json:"rules"`
}

// RpcHouseEdgeHandler estimates the house edge, in percent, of the table
// rules with any fields in the payload overridden.
// Payload: {"rules": {"decks": 2, "dealer_hits_soft_17": true}}
func RpcHouseEdgeHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req := houseEdgeRequest{Rules: gameConfig().Rules}
	if err := decodeRequest(payload, &req); err != nil {
		return "", err
	}
	rules := req.Rules.Normalize()
	return respond(logger, houseEdgeResponse{HouseEdge: domain.EstimateHouseEdge(rules), Rules: rules})
}

type sideBetsRequest struct {
	Cards           []string             `json:"cards"`
	DealerUp        string               `json:"dealer_up"`
	DealerBlackjack bool                 `json:"dealer_blackjack"`
	Kinds           []domain.SideBetKind `json:"kinds"`
}

type sideBetsResponse struct {
	Outcomes []domain.SideBetOutcome `json:"outcomes"`
}

// RpcSideBetsHandler scores side bets for the player's first two cards.
// Payload: {"cards": ["QH", "QH"], "dealer_up": "AS", "dealer_blackjack": true}
func RpcSideBetsHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req := sideBetsRequest{Kinds: domain.SideBetKinds()}
	if err := decodeRequest(payload, &req); err != nil {
		return "", err
	}
	cards, err := domain.ParseCards(req.Cards)
	if err != nil || len(cards) != 2 {
		return "", runtime.NewError("Exactly two valid cards required", codeInvalidArgument)
	}
	up, err := domain.ParseCard(req.DealerUp)
	if err != nil {
		return "", runtime.NewError("Valid dealer up-card required", codeInvalidArgument)
	}

	sctx := domain.SideBetContext{PlayerCards: cards, DealerUp: up, DealerBlackjack: req.DealerBlackjack}
	resp := sideBetsResponse{Outcomes: []domain.SideBetOutcome{}}
	for _, kind := range req.Kinds {
		sb, ok := domain.LookupSideBet(kind)
		if !ok {
			return "", runtime.NewError("Unknown side bet: "+string(kind), codeNotFound)
		}
		resp.Outcomes = append(resp.Outcomes, sb.Evaluate(sctx))
	}
	return respond(logger, resp)
}
