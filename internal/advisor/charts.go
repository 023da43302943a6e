package advisor

import (
	"fmt"
	"strings"
)

// code is one chart cell.
type code uint8

const (
	cHit code = iota
	cStand
	cDoubleOrHit
	cDoubleOrStand
	cSplit
	cSplitIfDAS
	cSurrenderOrHit
	cSurrenderOrStand
)

var codeNames = map[string]code{
	"H":  cHit,
	"S":  cStand,
	"Dh": cDoubleOrHit,
	"Ds": cDoubleOrStand,
	"P":  cSplit,
	"Ph": cSplitIfDAS,
	"Rh": cSurrenderOrHit,
	"Rs": cSurrenderOrStand,
	"-":  cHit,
}

// row holds one chart line, dealer up-card 2 through ace.
type row [10]code

// Multi-deck basic strategy, dealer stands on soft 17. Columns are dealer
// 2 3 4 5 6 7 8 9 T A.
var hardChart = map[int]string{
	8:  "H  H  H  H  H  H  H  H  H  H",
	9:  "H  Dh Dh Dh Dh H  H  H  H  H",
	10: "Dh Dh Dh Dh Dh Dh Dh Dh H  H",
	11: "Dh Dh Dh Dh Dh Dh Dh Dh Dh H",
	12: "H  H  S  S  S  H  H  H  H  H",
	13: "S  S  S  S  S  H  H  H  H  H",
	14: "S  S  S  S  S  H  H  H  H  H",
	15: "S  S  S  S  S  H  H  H  Rh H",
	16: "S  S  S  S  S  H  H  Rh Rh Rh",
	17: "S  S  S  S  S  S  S  S  S  S",
}

var softChart = map[int]string{
	12: "H  H  H  H  H  H  H  H  H  H",
	13: "H  H  H  Dh Dh H  H  H  H  H",
	14: "H  H  H  Dh Dh H  H  H  H  H",
	15: "H  H  Dh Dh Dh H  H  H  H  H",
	16: "H  H  Dh Dh Dh H  H  H  H  H",
	17: "H  Dh Dh Dh Dh H  H  H  H  H",
	18: "S  Ds Ds Ds Ds S  S  H  H  H",
	19: "S  S  S  S  S  S  S  S  S  S",
	20: "S  S  S  S  S  S  S  S  S  S",
}

// Pairs that are never split (fives, tens) have no row and play as totals.
// A "-" cell means do not split.
var pairChart = map[int]string{
	2:  "Ph Ph P  P  P  P  -  -  -  -",
	3:  "Ph Ph P  P  P  P  -  -  -  -",
	4:  "-  -  -  Ph Ph -  -  -  -  -",
	6:  "Ph P  P  P  P  -  -  -  -  -",
	7:  "P  P  P  P  P  P  -  -  -  -",
	8:  "P  P  P  P  P  P  P  P  P  P",
	9:  "P  P  P  P  P  -  P  P  -  -",
	11: "P  P  P  P  P  P  P  P  P  P",
}

// Rows that change when the dealer hits soft 17.
var hardChartH17 = map[int]string{
	11: "Dh Dh Dh Dh Dh Dh Dh Dh Dh Dh",
	15: "S  S  S  S  S  H  H  H  Rh Rh",
	17: "S  S  S  S  S  S  S  S  S  Rs",
}

var softChartH17 = map[int]string{
	18: "Ds Ds Ds Ds Ds S  S  H  H  H",
	19: "S  S  S  S  Ds S  S  S  S  S",
}

type chart map[int]row

func mustParse(name string, src map[int]string) chart {
	out := make(chart, len(src))
	for key, line := range src {
		cells := strings.Fields(line)
		if len(cells) != len(row{}) {
			panic(fmt.Sprintf("advisor: %s row %d has %d cells", name, key, len(cells)))
		}
		var r row
		for i, cell := range cells {
			c, ok := codeNames[cell]
			if !ok {
				panic(fmt.Sprintf("advisor: %s row %d: unknown cell %q", name, key, cell))
			}
			r[i] = c
		}
		out[key] = r
	}
	return out
}

func overlay(base, over chart) chart {
	out := make(chart, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

type charts struct {
	hard  chart
	soft  chart
	pairs chart
}

var (
	standSoft17Charts = charts{
		hard:  mustParse("hard", hardChart),
		soft:  mustParse("soft", softChart),
		pairs: mustParse("pairs", pairChart),
	}
	hitSoft17Charts = charts{
		hard:  overlay(standSoft17Charts.hard, mustParse("hard H17", hardChartH17)),
		soft:  overlay(standSoft17Charts.soft, mustParse("soft H17", softChartH17)),
		pairs: standSoft17Charts.pairs,
	}
)
