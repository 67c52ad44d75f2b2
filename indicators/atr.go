package indicators

// ATR returns the Average True Range column using Wilder smoothing.
// The first value appears at index period.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if period <= 0 || n <= period {
		return out
	}

	p := float64(period)

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
	}
	atr := sum / p
	out[period] = atr

	for i := period + 1; i < n; i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		atr = (atr*(p-1) + tr) / p
		out[i] = atr
	}
	return out
}
