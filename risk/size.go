package risk

import "math"

// EntryQty returns the whole-share quantity for a new long or short
// entry: the policy's fraction of equity, never more than buying power
// allows, floored to whole shares.
func EntryQty(p Policy, equity, buyingPower, price float64) float64 {
	if price <= 0 {
		return 0
	}
	budget := equity * p.InvestFraction
	if budget > buyingPower {
		budget = buyingPower
	}
	return math.Floor(budget / price)
}

// BracketLegs returns the stop-loss and take-profit prices for an
// entry. Longs stop below and target above; shorts mirror.
func BracketLegs(p Policy, entry float64, short bool) (stop, takeProfit float64) {
	if short {
		return entry * (1 + p.StopLossPct), entry * (1 - p.TakeProfitPct)
	}
	return entry * (1 - p.StopLossPct), entry * (1 + p.TakeProfitPct)
}
