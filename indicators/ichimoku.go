package indicators

// Ichimoku cloud periods.
const (
	TenkanPeriod = 9
	KijunPeriod  = 26
	SenkouPeriod = 52
	CloudShift   = 26
	ChikouShift  = 22
)

// IchimokuColumns holds the five cloud lines, aligned with the input.
type IchimokuColumns struct {
	Tenkan []float64
	Kijun  []float64
	SpanA  []float64 // shifted forward CloudShift bars
	SpanB  []float64 // shifted forward CloudShift bars
	Chikou []float64 // close shifted back ChikouShift bars
}

// Ichimoku computes the cloud lines. Span A/B at index i carry the
// value computed CloudShift bars earlier; Chikou at index i carries the
// close from ChikouShift bars later (0 near the end of the series).
func Ichimoku(highs, lows, closes []float64) IchimokuColumns {
	n := len(closes)
	cols := IchimokuColumns{
		Tenkan: midline(highs, lows, TenkanPeriod),
		Kijun:  midline(highs, lows, KijunPeriod),
		SpanA:  make([]float64, n),
		SpanB:  make([]float64, n),
		Chikou: make([]float64, n),
	}

	spanBRaw := midline(highs, lows, SenkouPeriod)
	for i := CloudShift; i < n; i++ {
		src := i - CloudShift
		if cols.Tenkan[src] != 0 && cols.Kijun[src] != 0 {
			cols.SpanA[i] = (cols.Tenkan[src] + cols.Kijun[src]) / 2
		}
		cols.SpanB[i] = spanBRaw[src]
	}

	for i := 0; i+ChikouShift < n; i++ {
		cols.Chikou[i] = closes[i+ChikouShift]
	}
	return cols
}

// midline returns (highest high + lowest low)/2 over the trailing period.
func midline(highs, lows []float64, period int) []float64 {
	n := len(highs)
	out := make([]float64, n)
	for i := period - 1; i < n; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - period + 1; j < i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		out[i] = (hh + ll) / 2
	}
	return out
}
