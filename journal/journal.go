// Package journal persists scored signals and order fills.
package journal

import (
	"strings"
	"time"

	"github.com/rustyeddy/smarttrader/signal"
)

// SignalRecord is one scored decision as written to the journal.
type SignalRecord struct {
	ID         string
	Symbol     string
	Time       time.Time
	Regime     string
	Action     string
	Price      float64
	Qty        float64
	Score      float64
	Profit     float64
	Conditions string // pipe-joined names of the fired conditions
}

// FromSignal flattens a scored signal into its journal row.
func FromSignal(s signal.Signal) SignalRecord {
	return SignalRecord{
		ID:         s.ID,
		Symbol:     s.Symbol,
		Time:       s.Time,
		Regime:     s.Regime,
		Action:     string(s.Action),
		Price:      s.Price,
		Qty:        s.Qty,
		Score:      s.Score,
		Profit:     s.Profit,
		Conditions: strings.Join(s.Fired, "|"),
	}
}

// FillRecord is one confirmed (or abandoned) order outcome.
type FillRecord struct {
	OrderID     string
	SignalID    string
	Symbol      string
	Side        string
	Qty         float64
	FillPrice   float64
	SubmittedAt time.Time
	FilledAt    time.Time
	Status      string
}

type Journal interface {
	RecordSignal(SignalRecord) error
	RecordFill(FillRecord) error
	Close() error
}
