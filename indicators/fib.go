package indicators

// FibLevels are the retracement levels over a window's price extremes.
// Level0 sits at the window high, Level100 at the window low; the
// levels in between step down by the classic retracement ratios.
type FibLevels struct {
	Level0   float64
	Level236 float64
	Level382 float64
	Level500 float64
	Level618 float64
	Level786 float64
	Level100 float64
}

// Fibonacci computes retracement levels from the high/low extremes of
// the whole window.
func Fibonacci(highs, lows []float64) FibLevels {
	if len(highs) == 0 {
		return FibLevels{}
	}

	hi := highs[0]
	lo := lows[0]
	for i := 1; i < len(highs); i++ {
		if highs[i] > hi {
			hi = highs[i]
		}
		if lows[i] < lo {
			lo = lows[i]
		}
	}
	diff := hi - lo

	return FibLevels{
		Level0:   hi,
		Level236: hi - diff*0.236,
		Level382: hi - diff*0.382,
		Level500: hi - diff*0.500,
		Level618: hi - diff*0.618,
		Level786: hi - diff*0.786,
		Level100: lo,
	}
}
