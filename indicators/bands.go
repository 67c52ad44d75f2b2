package indicators

import "math"

// Bollinger returns the upper, middle and lower band columns: an SMA of
// closes with width standard deviations either side.
func Bollinger(closes []float64, period int, width float64) (upper, middle, lower []float64) {
	n := len(closes)
	upper = make([]float64, n)
	middle = make([]float64, n)
	lower = make([]float64, n)
	if period <= 0 || n < period {
		return upper, middle, lower
	}

	sma := SMA(closes, period)
	for i := period - 1; i < n; i++ {
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - sma[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))

		middle[i] = sma[i]
		upper[i] = sma[i] + width*sd
		lower[i] = sma[i] - width*sd
	}
	return upper, middle, lower
}
