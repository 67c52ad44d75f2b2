package risk

import "fmt"

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of pre-trade checks on an entry.
type Decision struct {
	Allowed    bool
	Qty        float64
	Cost       float64
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// CheckEntry sizes an entry under the policy and rejects it when the
// resulting order is too small or costs more than available buying
// power.
func CheckEntry(p Policy, equity, buyingPower, price float64) Decision {
	d := Decision{Allowed: true}

	if price <= 0 {
		d.add("BAD_PRICE", fmt.Sprintf("price %.4f must be positive", price))
		return d
	}

	d.Qty = EntryQty(p, equity, buyingPower, price)
	d.Cost = d.Qty * price

	if d.Qty < p.MinQty {
		d.add("QTY_TOO_SMALL",
			fmt.Sprintf("sized qty %.0f below minimum %.0f", d.Qty, p.MinQty))
	}
	if d.Cost > buyingPower {
		d.add("INSUFFICIENT_BUYING_POWER",
			fmt.Sprintf("cost %.2f exceeds buying power %.2f", d.Cost, buyingPower))
	}

	return d
}
