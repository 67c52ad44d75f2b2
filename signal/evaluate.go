package signal

import (
	"math"

	"github.com/rustyeddy/smarttrader/market"
)

// Comparison thresholds for the basic predicates.
const (
	rsiOversoldLevel   = 30.0
	rsiOverboughtLevel = 70.0
	stochLowLevel      = 20.0
	stochHighLevel     = 80.0
	cciLowLevel        = -100.0
	cciHighLevel       = 100.0
	adxTrendLevel      = 25.0
	smaProximityPct    = 0.05
)

// PositionView is the evaluator's read-only view of one holding.
// Shares are signed: negative means short.
type PositionView struct {
	Shares     float64
	EntryPrice float64
}

// Snapshot is a point-in-time copy of the portfolio state used during
// evaluation and scoring. It is never mutated by either.
type Snapshot struct {
	BuyingPower float64
	Positions   map[string]PositionView
}

// Shares returns the signed share count for a symbol, 0 when flat.
func (s Snapshot) Shares(symbol string) float64 {
	return s.Positions[symbol].Shares
}

// Evaluate computes the full condition vector for one annotated bar,
// optionally paired with a daily-timeframe bar. It is a pure function
// of its inputs.
func Evaluate(bar market.Bar, daily *market.Bar, snap Snapshot) Conditions {
	var c Conditions

	// Layer 1: basic indicator comparisons.
	c[MACDAboveSignal] = bar.MACD > bar.MACDSignal
	c[MACDBelowSignal] = bar.MACD < bar.MACDSignal
	c[SMA50AboveSMA200] = bar.SMA50 > bar.SMA200
	c[SMA50BelowSMA200] = bar.SMA50 < bar.SMA200
	c[RSIOversold] = bar.RSI < rsiOversoldLevel
	c[RSIOverbought] = bar.RSI > rsiOverboughtLevel
	c[CloseBelowLowerBB] = bar.Close < bar.LowerBB
	c[CloseAboveUpperBB] = bar.Close > bar.UpperBB
	c[SlowKOversold] = bar.SlowK < stochLowLevel
	c[SlowDOversold] = bar.SlowD < stochLowLevel
	c[SlowKOverbought] = bar.SlowK > stochHighLevel
	c[SlowDOverbought] = bar.SlowD > stochHighLevel
	c[CloseAboveSpanA] = bar.Close > bar.SenkouSpanA
	c[SpanAAboveSpanB] = bar.SenkouSpanA > bar.SenkouSpanB
	c[CloseBelowSpanA] = bar.Close < bar.SenkouSpanA
	c[CloseBelowSpanB] = bar.Close < bar.SenkouSpanB
	c[CloseNearSMA50] = bar.SMA50 > 0 &&
		math.Abs(bar.Close-bar.SMA50) <= smaProximityPct*bar.SMA50
	c[StrongTrend] = bar.ADX > adxTrendLevel
	c[CCIOversold] = bar.CCI < cciLowLevel
	c[CCIOverbought] = bar.CCI > cciHighLevel
	c[CloseInUpperFibBand] = within(bar.Close, bar.Fib236, bar.Fib0)
	c[CloseInLowerFibBand] = within(bar.Close, bar.Fib100, bar.Fib786)

	// Daily timeframe mirrors the basics under its own namespace.
	if daily != nil {
		c[MACDAboveSignalDaily] = daily.MACD > daily.MACDSignal
		c[MACDBelowSignalDaily] = daily.MACD < daily.MACDSignal
		c[SMA50AboveSMA200Daily] = daily.SMA50 > daily.SMA200
		c[SMA50BelowSMA200Daily] = daily.SMA50 < daily.SMA200
		c[RSIOversoldDaily] = daily.RSI < rsiOversoldLevel
		c[RSIOverboughtDaily] = daily.RSI > rsiOverboughtLevel
		c[CloseAboveSpanADaily] = daily.Close > daily.SenkouSpanA
		c[SpanAAboveSpanBDaily] = daily.SenkouSpanA > daily.SenkouSpanB
		c[CloseBelowSpanADaily] = daily.Close < daily.SenkouSpanA
		c[CloseBelowSpanBDaily] = daily.Close < daily.SenkouSpanB
	}

	shares := snap.Shares(bar.Symbol)
	c[HasLongPosition] = shares > 0
	c[HasShortPosition] = shares < 0
	c[NoPosition] = shares == 0

	// Layer 2: composite setups.
	c[BullishCross] = c[MACDAboveSignal] && c[SMA50AboveSMA200]
	c[BearishCross] = c[MACDBelowSignal] && c[SMA50BelowSMA200]
	c[Oversold] = c[RSIOversold] && c[CloseBelowLowerBB]
	c[Overbought] = c[RSIOverbought] && c[CloseAboveUpperBB]
	c[StochOversold] = c[SlowKOversold] && c[SlowDOversold] && c[CloseBelowLowerBB]
	c[StochOverbought] = c[SlowKOverbought] && c[SlowDOverbought] && c[CloseAboveUpperBB]
	c[BullishIchimoku] = c[CloseAboveSpanA] && c[SpanAAboveSpanB]
	c[BearishIchimoku] = c[CloseBelowSpanA] || c[CloseBelowSpanB]
	c[DailyUptrend] = c[SMA50AboveSMA200Daily] && c[MACDAboveSignalDaily]
	c[DailyDowntrend] = c[SMA50BelowSMA200Daily] && c[MACDBelowSignalDaily]
	c[FibEntryLong] = c[CloseInUpperFibBand] && c[NoPosition]
	c[FibExitLong] = c[CloseInLowerFibBand] && c[HasLongPosition]
	c[FibEntryShort] = c[CloseInLowerFibBand] && c[NoPosition]

	// Layer 3: advanced entry/exit signals.
	c[AdvancedBullishCross] = c[BullishCross] && c[NoPosition]
	c[HighRiskBullish] = (c[Oversold] || c[StochOversold]) && c[NoPosition]
	c[LowerRiskBullish] = c[FibEntryLong] && (c[BullishIchimoku] || c[DailyUptrend])
	c[ExitBullish] = (c[Overbought] || c[StochOverbought] || c[FibExitLong]) && c[HasLongPosition]
	c[AdvancedBearishCross] = c[BearishCross] && c[NoPosition]
	c[HighRiskBearish] = (c[Overbought] || c[StochOverbought]) && c[NoPosition]
	c[LowerRiskBearish] = c[FibEntryShort] && (c[BearishIchimoku] || c[DailyDowntrend])
	c[ExitBearish] = (c[Oversold] || c[StochOversold] || c[CloseInUpperFibBand]) && c[HasShortPosition]

	// No named setup fired.
	hold := true
	for _, adv := range advancedConditions {
		if c[adv] {
			hold = false
			break
		}
	}
	c[Hold] = hold

	return c
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
