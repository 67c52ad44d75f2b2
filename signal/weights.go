package signal

import "github.com/rustyeddy/smarttrader/regime"

// Weights maps advanced conditions to positive scores. A condition
// absent from the table contributes 0 in that regime.
type Weights map[Condition]float64

// Tables holds one weight table per regime.
type Tables map[regime.Regime]Weights

// actionPredicates fixes which conditions feed each action's score.
var actionPredicates = map[Action][]Condition{
	Buy:   {AdvancedBullishCross, HighRiskBullish, LowerRiskBullish},
	Sell:  {ExitBullish, AdvancedBearishCross, HighRiskBearish},
	Short: {AdvancedBearishCross, HighRiskBearish, LowerRiskBearish},
	Cover: {ExitBearish},
	HoldA: {Hold},
}

// DefaultTables returns the stock weight tables. Trending regimes favor
// their own crosses, the low-volatility table leans on retracement
// entries, and the high-volatility table weights exits over entries.
func DefaultTables() Tables {
	return Tables{
		regime.Bullish: {
			AdvancedBullishCross: 4.0,
			LowerRiskBullish:     3.0,
			HighRiskBullish:      2.0,
			ExitBullish:          2.5,
			ExitBearish:          3.0,
			Hold:                 1.0,
		},
		regime.Bearish: {
			AdvancedBearishCross: 4.0,
			LowerRiskBearish:     3.0,
			HighRiskBearish:      2.0,
			ExitBearish:          2.5,
			ExitBullish:          3.0,
			Hold:                 1.0,
		},
		regime.LowVolatility: {
			LowerRiskBullish: 3.0,
			LowerRiskBearish: 3.0,
			ExitBullish:      2.0,
			ExitBearish:      2.0,
			Hold:             2.0,
		},
		regime.HighVolatility: {
			HighRiskBullish: 1.0,
			HighRiskBearish: 1.0,
			ExitBullish:     4.0,
			ExitBearish:     4.0,
			Hold:            3.0,
		},
	}
}
