// Package regime classifies the coarse market condition of a symbol
// from its daily price history.
package regime

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/smarttrader/indicators"
	"github.com/rustyeddy/smarttrader/market"
)

// Regime selects which predicate-weight table is active.
type Regime string

const (
	Bullish        Regime = "bullish"
	Bearish        Regime = "bearish"
	LowVolatility  Regime = "low_volatility"
	HighVolatility Regime = "high_volatility"
)

const (
	adxTrendLevel      = 25.0
	atrThresholdFactor = 1.5
)

// Params are the lookback periods for the dual-SMA trend filter and
// the trend-strength/volatility measures.
type Params struct {
	ShortPeriod int
	LongPeriod  int
	ADXPeriod   int
	ATRPeriod   int
}

func DefaultParams() Params {
	return Params{ShortPeriod: 10, LongPeriod: 20, ADXPeriod: 14, ATRPeriod: 14}
}

// MinBars is the smallest history that leaves every measure warmed up
// at the evaluation point.
func (p Params) MinBars() int {
	n := p.LongPeriod
	if v := 2*p.ADXPeriod + 1; v > n {
		n = v
	}
	if v := p.ATRPeriod + 1; v > n {
		n = v
	}
	return n + 1
}

// Classifier derives regimes and optionally persists the annotated
// window through an audit sink.
type Classifier struct {
	Params Params
	Audit  Sink // optional
}

// WindowRow is one annotated bar of the classification window, as
// handed to the audit sink.
type WindowRow struct {
	Bar       market.Bar
	ShortSMA  float64
	LongSMA   float64
	ADX       float64
	ATR       float64
	TrendSign int
}

// Sink persists per-symbol classification windows. Write-only audit
// trail; never read back.
type Sink interface {
	WriteWindow(symbol string, rows []WindowRow, medianATR float64) error
}

// Classify computes the regime for one symbol from its daily history.
//
// Trend sign compares the short and long SMA at the most recent bar;
// directional regimes additionally require ADX above 25. Otherwise the
// last ATR against 1.5x the window's median ATR splits low from high
// volatility. Directional outcomes take priority by check order.
//
// Histories shorter than Params.MinBars fail with
// market.ErrDataUnavailable instead of classifying over warmup zeros.
func (c *Classifier) Classify(symbol string, history *market.BarSet) (Regime, error) {
	p := c.Params
	if p.LongPeriod == 0 {
		p = DefaultParams()
	}

	if history == nil || history.Len() < p.MinBars() {
		got := 0
		if history != nil {
			got = history.Len()
		}
		return "", fmt.Errorf("classify %s: need %d daily bars, have %d: %w",
			symbol, p.MinBars(), got, market.ErrDataUnavailable)
	}

	closes := history.Closes()
	highs := history.Highs()
	lows := history.Lows()

	shortSMA := indicators.SMA(closes, p.ShortPeriod)
	longSMA := indicators.SMA(closes, p.LongPeriod)
	adx := indicators.ADX(highs, lows, closes, p.ADXPeriod)
	atr := indicators.ATR(highs, lows, closes, p.ATRPeriod)

	last := history.Len() - 1
	trend := trendSign(shortSMA[last], longSMA[last])
	medATR := medianNonZero(atr)
	threshold := atrThresholdFactor * medATR

	if c.Audit != nil {
		rows := make([]WindowRow, history.Len())
		for i, b := range history.Bars {
			rows[i] = WindowRow{
				Bar:       b,
				ShortSMA:  shortSMA[i],
				LongSMA:   longSMA[i],
				ADX:       adx[i],
				ATR:       atr[i],
				TrendSign: trendSign(shortSMA[i], longSMA[i]),
			}
		}
		if err := c.Audit.WriteWindow(symbol, rows, medATR); err != nil {
			return "", fmt.Errorf("classify %s: audit: %w", symbol, err)
		}
	}

	switch {
	case trend > 0 && adx[last] > adxTrendLevel:
		return Bullish, nil
	case trend < 0 && adx[last] > adxTrendLevel:
		return Bearish, nil
	case atr[last] < threshold:
		return LowVolatility, nil
	default:
		return HighVolatility, nil
	}
}

func trendSign(short, long float64) int {
	switch {
	case short > long:
		return 1
	case short < long:
		return -1
	default:
		return 0
	}
}

// medianNonZero takes the median over warmed-up ATR values only;
// counting warmup zeros would drag the threshold toward zero.
func medianNonZero(values []float64) float64 {
	var vs []float64
	for _, v := range values {
		if v > 0 {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return 0
	}
	sort.Float64s(vs)
	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid]
	}
	return (vs[mid-1] + vs[mid]) / 2
}
