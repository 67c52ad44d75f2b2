package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	signals *csv.Writer
	fills   *csv.Writer
	sf, ff  *os.File
}

func NewCSV(signalsPath, fillsPath string) (*CSVJournal, error) {
	sf, err := os.Create(signalsPath)
	if err != nil {
		return nil, err
	}
	ff, err := os.Create(fillsPath)
	if err != nil {
		sf.Close()
		return nil, err
	}

	sw := csv.NewWriter(sf)
	fw := csv.NewWriter(ff)

	if err := sw.Write([]string{"id", "symbol", "time", "regime", "action", "price", "qty", "score", "profit", "conditions"}); err != nil {
		return nil, err
	}
	if err := fw.Write([]string{"order_id", "signal_id", "symbol", "side", "qty", "fill_price", "submitted_at", "filled_at", "status"}); err != nil {
		return nil, err
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}
	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{sw, fw, sf, ff}, nil
}

func (j *CSVJournal) RecordSignal(s SignalRecord) error {
	if err := j.signals.Write([]string{
		s.ID,
		s.Symbol,
		s.Time.Format(time.RFC3339),
		s.Regime,
		s.Action,
		f(s.Price),
		f(s.Qty),
		f(s.Score),
		f(s.Profit),
		s.Conditions,
	}); err != nil {
		return err
	}
	j.signals.Flush()
	return j.signals.Error()
}

func (j *CSVJournal) RecordFill(r FillRecord) error {
	if err := j.fills.Write([]string{
		r.OrderID,
		r.SignalID,
		r.Symbol,
		r.Side,
		f(r.Qty),
		f(r.FillPrice),
		r.SubmittedAt.Format(time.RFC3339),
		r.FilledAt.Format(time.RFC3339),
		r.Status,
	}); err != nil {
		return err
	}
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) Close() error {
	j.signals.Flush()
	if err := j.signals.Error(); err != nil {
		return err
	}
	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}

	if err := j.sf.Close(); err != nil {
		return err
	}
	return j.ff.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
