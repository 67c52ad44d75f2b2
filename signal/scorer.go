package signal

import (
	"math"
	"time"

	"github.com/rustyeddy/smarttrader/internal/id"
	"github.com/rustyeddy/smarttrader/regime"
)

// holdFloor is the score forced onto hold when every action scores 0,
// so hold always wins an otherwise all-zero tie.
const holdFloor = 3.0

// Scorer selects an action from evaluated conditions under the active
// regime's weight table. It holds no mutable state.
type Scorer struct {
	Tables Tables
}

func NewScorer() *Scorer {
	return &Scorer{Tables: DefaultTables()}
}

// ScoreAndSelect computes a score per candidate action and returns the
// highest-scoring feasible one, sized and priced for execution.
//
// Selection order: score every action from the regime's table, force
// the hold floor on an all-zero map, zero out infeasible actions
// (sell without a long, short while long, cover without a short), take
// the argmax in fixed action order, then re-check feasibility of the
// winner and fall back to hold if it cannot actually be executed.
func (s *Scorer) ScoreAndSelect(c *Conditions, reg regime.Regime, snap Snapshot, symbol string, closePrice float64, at time.Time) Signal {
	weights := s.Tables[reg]
	shares := snap.Shares(symbol)

	scores := make(map[Action]float64, len(actionOrder))
	for _, a := range actionOrder {
		var sum float64
		for _, cond := range actionPredicates[a] {
			if c.True(cond) {
				sum += weights[cond]
			}
		}
		scores[a] = sum
	}
	// Hold is the do-nothing baseline every other action must beat, so
	// its table weight applies whether or not the hold condition fired.
	scores[HoldA] = weights[Hold]

	allZero := true
	for _, v := range scores {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		scores[HoldA] = holdFloor
	}

	// Eligibility masks are absolute: a masked action is never
	// selected regardless of its score.
	if shares <= 0 {
		scores[Sell] = 0
	}
	if shares > 0 {
		scores[Short] = 0
	}
	if shares >= 0 {
		scores[Cover] = 0
	}

	selected := HoldA
	best := math.Inf(-1)
	for _, a := range actionOrder {
		if scores[a] > best {
			selected = a
			best = scores[a]
		}
	}

	selected = s.recheck(selected, snap, symbol, closePrice)

	sig := Signal{
		ID:     id.New(),
		Symbol: symbol,
		Time:   at,
		Regime: string(reg),
		Action: selected,
		Price:  closePrice,
		Score:  scores[selected],
		Scores: scores,
		Fired:  c.TrueNames(),
	}

	pos := snap.Positions[symbol]
	switch selected {
	case Buy, Short:
		sig.Qty = math.Floor(snap.BuyingPower / closePrice)
	case Sell:
		sig.Qty = pos.Shares
		sig.Profit = (closePrice - pos.EntryPrice) * pos.Shares
	case Cover:
		sig.Qty = -pos.Shares
		sig.Profit = (pos.EntryPrice - closePrice) * -pos.Shares
	}

	return sig
}

// recheck demotes a winner the portfolio cannot actually execute.
// Entries need enough buying power for at least part of one share;
// exits need the position to really be there with the right sign.
func (s *Scorer) recheck(a Action, snap Snapshot, symbol string, closePrice float64) Action {
	pos, held := snap.Positions[symbol]
	switch a {
	case Buy, Short:
		if snap.BuyingPower <= closePrice {
			return HoldA
		}
	case Sell:
		if !held || pos.Shares <= 0 {
			return HoldA
		}
	case Cover:
		if !held || pos.Shares >= 0 {
			return HoldA
		}
	}
	return a
}
