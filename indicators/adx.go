package indicators

import "math"

// ADX returns Wilder's Average Directional Index column.
//
// Warmup follows the classic construction: period candles seed the
// smoothed TR/+DM/-DM averages, then period DX values seed the ADX, so
// the first ADX appears at index 2*period.
func ADX(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if period <= 0 || n <= 2*period {
		return out
	}

	p := float64(period)

	var tr14, pdm14, mdm14 float64
	var adx, dxSum float64
	dxCount := 0

	for i := 1; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]

		var pdm, mdm float64
		if upMove > downMove && upMove > 0 {
			pdm = upMove
		}
		if downMove > upMove && downMove > 0 {
			mdm = downMove
		}
		tr := trueRange(highs[i], lows[i], closes[i-1])

		if i <= period {
			tr14 += tr
			pdm14 += pdm
			mdm14 += mdm
			if i == period {
				tr14 /= p
				pdm14 /= p
				mdm14 /= p
			}
			continue
		}

		tr14 = (tr14*(p-1) + tr) / p
		pdm14 = (pdm14*(p-1) + pdm) / p
		mdm14 = (mdm14*(p-1) + mdm) / p
		if tr14 == 0 {
			continue
		}

		pdi := 100 * pdm14 / tr14
		mdi := 100 * mdm14 / tr14
		den := pdi + mdi
		if den == 0 {
			continue
		}
		dx := 100 * math.Abs(pdi-mdi) / den

		if dxCount < period {
			dxSum += dx
			dxCount++
			if dxCount == period {
				adx = dxSum / p
				out[i] = adx
			}
			continue
		}

		adx = (adx*(p-1) + dx) / p
		out[i] = adx
	}
	return out
}

func trueRange(high, low, prevClose float64) float64 {
	hl := high - low
	hc := math.Abs(high - prevClose)
	lc := math.Abs(low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}
