package market

import (
	"fmt"
	"sort"
	"time"
)

// BarSet is an ordered series of bars for a single symbol.
type BarSet struct {
	Symbol string
	Bars   []Bar
}

func NewBarSet(symbol string, bars []Bar) *BarSet {
	return &BarSet{Symbol: symbol, Bars: bars}
}

func (s *BarSet) Len() int { return len(s.Bars) }

// Last returns the most recent bar.
func (s *BarSet) Last() (Bar, error) {
	if len(s.Bars) == 0 {
		return Bar{}, fmt.Errorf("bar set %s is empty", s.Symbol)
	}
	return s.Bars[len(s.Bars)-1], nil
}

// Sort orders bars by time ascending. Fetchers that assemble a series
// from chunked requests call this before handing the set to callers.
func (s *BarSet) Sort() {
	sort.Slice(s.Bars, func(i, j int) bool {
		return s.Bars[i].Time.Before(s.Bars[j].Time)
	})
}

// Append adds a bar, rejecting out-of-order or duplicate timestamps.
func (s *BarSet) Append(b Bar) error {
	if n := len(s.Bars); n > 0 && !b.Time.After(s.Bars[n-1].Time) {
		return fmt.Errorf("bar %s at %s is not after %s",
			b.Symbol, b.Time.Format(time.RFC3339), s.Bars[n-1].Time.Format(time.RFC3339))
	}
	s.Bars = append(s.Bars, b)
	return nil
}

// Closes returns the close column.
func (s *BarSet) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s *BarSet) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s *BarSet) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// TrimWarmup drops leading bars whose SMA200 is still zero, i.e. bars
// without enough history for the longest lookback. Evaluating those
// bars would read zeroed indicators as real signals.
func (s *BarSet) TrimWarmup() {
	i := 0
	for i < len(s.Bars) && s.Bars[i].SMA200 == 0 {
		i++
	}
	s.Bars = s.Bars[i:]
}
