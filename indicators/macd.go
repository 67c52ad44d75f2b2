package indicators

// MACD returns the MACD line, signal line and histogram columns.
// The line appears once the slow EMA is seeded; the signal line after a
// further signalPeriod values of the line exist.
func MACD(closes []float64, fast, slow, signalPeriod int) (line, signal, hist []float64) {
	n := len(closes)
	line = make([]float64, n)
	signal = make([]float64, n)
	hist = make([]float64, n)
	if fast <= 0 || slow <= fast || n < slow {
		return line, signal, hist
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	for i := slow - 1; i < n; i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}

	// EMA of the line, starting where the line becomes valid.
	valid := line[slow-1:]
	sigValid := EMA(valid, signalPeriod)
	for i, v := range sigValid {
		signal[slow-1+i] = v
	}

	for i := slow - 2 + signalPeriod; i < n; i++ {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
