package nakama

const (
	// RpcFindTable is the Nakama RPC id clients call to find or create a table with an open seat.
	RpcFindTable = "blackjack_find_table"
	// RpcAdvice returns the strategy advisor's recommendation for a hand.
	RpcAdvice = "blackjack_advice"
	// RpcNextBet returns a betting progression's next wager.
	RpcNextBet = "blackjack_next_bet"
	// RpcHouseEdge estimates the house edge of a rule set.
	RpcHouseEdge = "blackjack_house_edge"
	// RpcSideBets scores side bets for a set of cards.
	RpcSideBets = "blackjack_side_bets"

	// MatchNameBlackjack is the authoritative match handler name registered with Nakama.
	MatchNameBlackjack = "blackjack_table"
)

// Match label keys.
const (
	MatchLabelKey_Game      = "game"
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Phase     = "phase"

	matchLabelGame = "blackjack"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlaceBet      int64 = 1 // {"amount": 10, "side_bets": {"21+3": 5}}
	OpDeal          int64 = 2
	OpHit           int64 = 3
	OpStand         int64 = 4
	OpDouble        int64 = 5
	OpSplit         int64 = 6
	OpSurrender     int64 = 7
	OpInsurance     int64 = 8 // {"take": true}
	OpNextRound     int64 = 9
	OpRequestState  int64 = 10
	OpRequestAdvice int64 = 11

	// Server -> Client events
	OpPhaseChanged      int64 = 101
	OpBetPlaced         int64 = 102
	OpCardsDealt        int64 = 103
	OpInsuranceOffered  int64 = 104
	OpInsuranceResolved int64 = 105
	OpCardDrawn         int64 = 106
	OpHandSplit         int64 = 107
	OpHandSurrendered   int64 = 108
	OpDealerPlayed      int64 = 109
	OpRoundSettled      int64 = 110
	OpRoundAborted      int64 = 111
	OpShoeShuffled      int64 = 112
	OpTableState        int64 = 113 // send privately
	OpAdvice            int64 = 114 // send privately
	OpGameError         int64 = 199 // send privately
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
)
