// Package indicators computes technical analysis columns over bar series.
package indicators

import "github.com/rustyeddy/smarttrader/market"

// Periods used by Annotate. These match the values the signal engine
// was tuned against; changing them invalidates the condition thresholds.
const (
	SMAShortPeriod = 50
	SMALongPeriod  = 200
	BBPeriod       = 20
	BBWidth        = 2.0
	RSIPeriod      = 14
	MACDFast       = 12
	MACDSlow       = 26
	MACDSignal     = 9
	StochKPeriod   = 14
	StochSmooth    = 3
	ADXPeriod      = 14
	CCIPeriod      = 14
)

// Annotate returns a copy of bars with every indicator column filled in.
// It is total: bars inside an indicator's warmup window get 0, never an
// error. Callers must treat a 0 on an indicator that is mathematically
// never 0 (ADX, band levels) as "insufficient history".
func Annotate(bars []market.Bar) []market.Bar {
	out := make([]market.Bar, len(bars))
	copy(out, bars)
	if len(bars) == 0 {
		return out
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	sma50 := SMA(closes, SMAShortPeriod)
	sma200 := SMA(closes, SMALongPeriod)
	upper, middle, lower := Bollinger(closes, BBPeriod, BBWidth)
	rsi := RSI(closes, RSIPeriod)
	macd, macdSig, macdHist := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	slowk, slowd := StochasticSlow(highs, lows, closes, StochKPeriod, StochSmooth, StochSmooth)
	adx := ADX(highs, lows, closes, ADXPeriod)
	cci := CCI(highs, lows, closes, CCIPeriod)
	ichi := Ichimoku(highs, lows, closes)
	fib := Fibonacci(highs, lows)

	for i := range out {
		out[i].Indicators = market.Indicators{
			SMA50:      sma50[i],
			SMA200:     sma200[i],
			UpperBB:    upper[i],
			MiddleBB:   middle[i],
			LowerBB:    lower[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: macdSig[i],
			MACDHist:   macdHist[i],
			SlowK:      slowk[i],
			SlowD:      slowd[i],
			ADX:        adx[i],
			CCI:        cci[i],

			TenkanSen:   ichi.Tenkan[i],
			KijunSen:    ichi.Kijun[i],
			SenkouSpanA: ichi.SpanA[i],
			SenkouSpanB: ichi.SpanB[i],
			ChikouSpan:  ichi.Chikou[i],

			Fib0:   fib.Level0,
			Fib236: fib.Level236,
			Fib382: fib.Level382,
			Fib500: fib.Level500,
			Fib618: fib.Level618,
			Fib786: fib.Level786,
			Fib100: fib.Level100,
		}
	}
	return out
}
