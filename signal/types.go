package signal

import "time"

// Action is the trade decision produced by the scorer.
type Action string

const (
	Buy   Action = "buy"
	Sell  Action = "sell"
	Short Action = "short"
	Cover Action = "cover"
	HoldA Action = "hold"
)

// actionOrder is the fixed iteration order for score selection. Ties
// between equal maximum scores resolve to the earliest action here, so
// the order must never change.
var actionOrder = [...]Action{Buy, Sell, Short, Cover, HoldA}

// Signal is one scored decision for one symbol at one bar.
type Signal struct {
	ID     string
	Symbol string
	Time   time.Time
	Regime string
	Action Action
	Price  float64

	// Qty is a whole share count, positive for every action. Direction
	// lives in Action.
	Qty float64

	// Score is the winning action's score; Scores holds all five.
	Score  float64
	Scores map[Action]float64

	// Profit is the projected realized P&L of an exit at Price, 0 for
	// entries and holds.
	Profit float64

	// Fired lists the names of the true conditions, for journal rows.
	Fired []string
}
