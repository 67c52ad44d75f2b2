// Package signal turns indicator-annotated bars into per-symbol trading
// decisions under regime-dependent weights.
package signal

// Condition identifies one predicate in the closed evaluation
// vocabulary. Conditions are evaluated in three layers: basic
// indicator comparisons, composite trade setups, and advanced
// (portfolio-state-aware) entry/exit signals.
type Condition int

const (
	// Basic, intraday bar.
	MACDAboveSignal Condition = iota
	MACDBelowSignal
	SMA50AboveSMA200
	SMA50BelowSMA200
	RSIOversold
	RSIOverbought
	CloseBelowLowerBB
	CloseAboveUpperBB
	SlowKOversold
	SlowDOversold
	SlowKOverbought
	SlowDOverbought
	CloseAboveSpanA
	SpanAAboveSpanB
	CloseBelowSpanA
	CloseBelowSpanB
	CloseNearSMA50
	StrongTrend
	CCIOversold
	CCIOverbought
	CloseInUpperFibBand // between fib 23.6% and the window high
	CloseInLowerFibBand // between the window low and fib 78.6%

	// Basic, daily timeframe. All false when no daily bar is supplied.
	MACDAboveSignalDaily
	MACDBelowSignalDaily
	SMA50AboveSMA200Daily
	SMA50BelowSMA200Daily
	RSIOversoldDaily
	RSIOverboughtDaily
	CloseAboveSpanADaily
	SpanAAboveSpanBDaily
	CloseBelowSpanADaily
	CloseBelowSpanBDaily

	// Basic, portfolio-derived.
	HasLongPosition
	HasShortPosition
	NoPosition

	// Composite setups.
	BullishCross
	BearishCross
	Oversold
	Overbought
	StochOversold
	StochOverbought
	BullishIchimoku
	BearishIchimoku
	DailyUptrend
	DailyDowntrend
	FibEntryLong
	FibExitLong
	FibEntryShort

	// Advanced entry/exit signals.
	AdvancedBullishCross
	HighRiskBullish
	LowerRiskBullish
	ExitBullish
	AdvancedBearishCross
	HighRiskBearish
	LowerRiskBearish
	ExitBearish

	// Hold is synthetic: true when no advanced signal fired.
	Hold

	condCount
)

var condNames = map[Condition]string{
	MACDAboveSignal:       "macd_above_signal",
	MACDBelowSignal:       "macd_below_signal",
	SMA50AboveSMA200:      "sma50_above_sma200",
	SMA50BelowSMA200:      "sma50_below_sma200",
	RSIOversold:           "rsi_oversold",
	RSIOverbought:         "rsi_overbought",
	CloseBelowLowerBB:     "close_below_lower_bb",
	CloseAboveUpperBB:     "close_above_upper_bb",
	SlowKOversold:         "slowk_oversold",
	SlowDOversold:         "slowd_oversold",
	SlowKOverbought:       "slowk_overbought",
	SlowDOverbought:       "slowd_overbought",
	CloseAboveSpanA:       "close_above_span_a",
	SpanAAboveSpanB:       "span_a_above_span_b",
	CloseBelowSpanA:       "close_below_span_a",
	CloseBelowSpanB:       "close_below_span_b",
	CloseNearSMA50:        "close_near_sma50",
	StrongTrend:           "strong_trend",
	CCIOversold:           "cci_oversold",
	CCIOverbought:         "cci_overbought",
	CloseInUpperFibBand:   "close_in_upper_fib_band",
	CloseInLowerFibBand:   "close_in_lower_fib_band",
	MACDAboveSignalDaily:  "macd_above_signal_daily",
	MACDBelowSignalDaily:  "macd_below_signal_daily",
	SMA50AboveSMA200Daily: "sma50_above_sma200_daily",
	SMA50BelowSMA200Daily: "sma50_below_sma200_daily",
	RSIOversoldDaily:      "rsi_oversold_daily",
	RSIOverboughtDaily:    "rsi_overbought_daily",
	CloseAboveSpanADaily:  "close_above_span_a_daily",
	SpanAAboveSpanBDaily:  "span_a_above_span_b_daily",
	CloseBelowSpanADaily:  "close_below_span_a_daily",
	CloseBelowSpanBDaily:  "close_below_span_b_daily",
	HasLongPosition:       "has_long_position",
	HasShortPosition:      "has_short_position",
	NoPosition:            "no_position",
	BullishCross:          "bullish_cross",
	BearishCross:          "bearish_cross",
	Oversold:              "oversold",
	Overbought:            "overbought",
	StochOversold:         "stoch_oversold",
	StochOverbought:       "stoch_overbought",
	BullishIchimoku:       "bullish_ichimoku",
	BearishIchimoku:       "bearish_ichimoku",
	DailyUptrend:          "daily_uptrend",
	DailyDowntrend:        "daily_downtrend",
	FibEntryLong:          "fib_entry_long",
	FibExitLong:           "fib_exit_long",
	FibEntryShort:         "fib_entry_short",
	AdvancedBullishCross:  "advanced_bullish_cross",
	HighRiskBullish:       "high_risk_bullish",
	LowerRiskBullish:      "lower_risk_bullish",
	ExitBullish:           "exit_bullish",
	AdvancedBearishCross:  "advanced_bearish_cross",
	HighRiskBearish:       "high_risk_bearish",
	LowerRiskBearish:      "lower_risk_bearish",
	ExitBearish:           "exit_bearish",
	Hold:                  "hold",
}

func (c Condition) String() string {
	if s, ok := condNames[c]; ok {
		return s
	}
	return "unknown"
}

// Conditions is the evaluated truth vector, indexed by Condition.
type Conditions [condCount]bool

// True reports the truth value of one condition.
func (c *Conditions) True(cond Condition) bool { return c[cond] }

// advancedConditions in fixed order, used for the synthetic hold rule.
var advancedConditions = []Condition{
	AdvancedBullishCross,
	HighRiskBullish,
	LowerRiskBullish,
	ExitBullish,
	AdvancedBearishCross,
	HighRiskBearish,
	LowerRiskBearish,
	ExitBearish,
}

// TrueNames lists the names of all true conditions, for audit rows.
func (c *Conditions) TrueNames() []string {
	var out []string
	for cond := Condition(0); cond < condCount; cond++ {
		if c[cond] {
			out = append(out, cond.String())
		}
	}
	return out
}
