package regime

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ulikunitz/xz"
)

// FileSink writes each classification window as an xz-compressed CSV
// under Dir, one file per symbol, replaced on every classification.
type FileSink struct {
	Dir string
}

var auditHeader = []string{
	"time", "open", "high", "low", "close", "volume",
	"short_sma", "long_sma", "adx", "atr", "trend_sign", "median_atr",
}

// WriteWindow implements Sink.
func (s *FileSink) WriteWindow(symbol string, rows []WindowRow, medianATR float64) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("audit dir: %w", err)
	}

	path := filepath.Join(s.Dir, symbol+"_regime_window.csv.xz")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audit %s: %w", symbol, err)
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("audit %s: %w", symbol, err)
	}

	w := csv.NewWriter(xw)
	if err := w.Write(auditHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Bar.Time.UTC().Format("2006-01-02T15:04:05Z"),
			ftoa(r.Bar.Open),
			ftoa(r.Bar.High),
			ftoa(r.Bar.Low),
			ftoa(r.Bar.Close),
			ftoa(r.Bar.Volume),
			ftoa(r.ShortSMA),
			ftoa(r.LongSMA),
			ftoa(r.ADX),
			ftoa(r.ATR),
			strconv.Itoa(r.TrendSign),
			ftoa(medianATR),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("audit %s: %w", symbol, err)
	}
	return f.Close()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
