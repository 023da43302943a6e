package domain

// House-edge constants, in percent of initial wager. The base game is six
// decks, dealer stands on soft 17, double any two, double after split,
// no surrender, 3:2 naturals, three splits (four hands), no resplitting aces.
const (
	baseHouseEdge = 0.50

	edgeHitSoft17    = 0.22
	edgeSixToFive    = 1.39
	edgeEvenMoney    = 2.27
	edgeNoDouble     = 1.60
	edgeNoDAS        = 0.14
	edgeSurrender    = -0.08
	edgeResplitAces  = -0.08
	edgeHitSplitAces = -0.19
)

var edgeByDecks = map[int]float64{
	1: -0.48,
	2: -0.19,
	3: -0.10,
	4: -0.06,
	5: -0.03,
	6: 0,
	7: 0.01,
	8: 0.02,
}

var edgeByMaxSplits = map[int]float64{
	1: 0.10,
	2: 0.04,
	3: 0,
	4: -0.01,
}

// EstimateHouseEdge adjusts the base edge by fixed empirical deltas per
// rule. Offering insurance does not move the edge. Simulate measures the
// real thing.
func EstimateHouseEdge(rules GameRules) float64 {
	r := rules.Normalize()
	edge := baseHouseEdge + edgeByDecks[r.Decks] + edgeByMaxSplits[r.MaxSplits]
	if r.DealerHitsSoft17 {
		edge += edgeHitSoft17
	}
	switch r.BlackjackPayout {
	case PayoutSixToFive:
		edge += edgeSixToFive
	case PayoutEvenMoney:
		edge += edgeEvenMoney
	}
	if !r.DoubleAllowed {
		edge += edgeNoDouble
	} else if !r.DoubleAfterSplit {
		edge += edgeNoDAS
	}
	if r.SurrenderAllowed {
		edge += edgeSurrender
	}
	if r.ResplitAces {
		edge += edgeResplitAces
	}
	if r.HitSplitAces {
		edge += edgeHitSplitAces
	}
	return edge
}
