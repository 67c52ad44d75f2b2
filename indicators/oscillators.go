package indicators

import "math"

// RSI returns Wilder's Relative Strength Index column. The first value
// appears at index period; earlier entries are 0.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// StochasticSlow returns the slow %K and %D columns: fast %K over
// kPeriod, smoothed twice with simple moving averages.
func StochasticSlow(highs, lows, closes []float64, kPeriod, kSmooth, dSmooth int) (slowk, slowd []float64) {
	n := len(closes)
	fastk := make([]float64, n)
	if kPeriod <= 0 || n < kPeriod {
		return make([]float64, n), make([]float64, n)
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			fastk[i] = 50
			continue
		}
		fastk[i] = 100 * (closes[i] - ll) / (hh - ll)
	}

	slowk = smoothFrom(fastk, kPeriod-1, kSmooth)
	slowd = smoothFrom(slowk, kPeriod-1+kSmooth-1, dSmooth)
	return slowk, slowd
}

// smoothFrom applies an SMA of the given period to values, treating
// entries before start as warmup (output stays 0 there).
func smoothFrom(values []float64, start, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 {
		return out
	}
	for i := start + period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// CCI returns the Commodity Channel Index column using the standard
// 0.015 scaling constant.
func CCI(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if period <= 0 || n < period {
		return out
	}

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (highs[i] + lows[i] + closes[i]) / 3
	}

	for i := period - 1; i < n; i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tp[j]
		}
		mean := sum / float64(period)

		dev := 0.0
		for j := i - period + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - mean)
		}
		dev /= float64(period)
		if dev == 0 {
			continue
		}
		out[i] = (tp[i] - mean) / (0.015 * dev)
	}
	return out
}
