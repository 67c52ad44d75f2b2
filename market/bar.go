package market

import "time"

// Bar is a single OHLCV record for one symbol. Time is unique and
// strictly increasing within a series.
type Bar struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Indicators
}

// Indicators holds the values appended to a Bar by indicators.Annotate.
// A zero value on an indicator that is mathematically never zero (ADX,
// band levels) means "insufficient history", not a real reading.
type Indicators struct {
	SMA50  float64
	SMA200 float64

	UpperBB  float64
	MiddleBB float64
	LowerBB  float64

	RSI float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	SlowK float64
	SlowD float64

	ADX float64
	CCI float64

	TenkanSen   float64
	KijunSen    float64
	SenkouSpanA float64
	SenkouSpanB float64
	ChikouSpan  float64

	// Fibonacci retracement levels over the window extremes.
	// Fib0 is the window high, Fib100 the window low.
	Fib0   float64
	Fib236 float64
	Fib382 float64
	Fib500 float64
	Fib618 float64
	Fib786 float64
	Fib100 float64
}
