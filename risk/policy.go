// Package risk sizes entries and derives protective bracket legs.
package risk

// Policy bounds how much of the account a single entry may commit and
// where its protective legs sit relative to the entry price.
type Policy struct {
	// InvestFraction of equity committed per entry, e.g. 0.06.
	InvestFraction float64

	// MinQty is the smallest order the executor will submit.
	MinQty float64

	// Protective legs as fractions of the entry price.
	StopLossPct   float64 // 0.05
	TakeProfitPct float64 // 0.10
}

func DefaultPolicy() Policy {
	return Policy{
		InvestFraction: 0.06,
		MinQty:         1,
		StopLossPct:    0.05,
		TakeProfitPct:  0.10,
	}
}
