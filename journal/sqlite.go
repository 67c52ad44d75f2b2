package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordSignal(s SignalRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO signals
		(id, symbol, time, regime, action, price, qty, score, profit, conditions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Symbol, s.Time, s.Regime, s.Action,
		s.Price, s.Qty, s.Score, s.Profit, s.Conditions,
	)
	return err
}

func (j *SQLite) RecordFill(r FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(order_id, signal_id, symbol, side, qty, fill_price, submitted_at, filled_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderID, r.SignalID, r.Symbol, r.Side, r.Qty,
		r.FillPrice, r.SubmittedAt, r.FilledAt, r.Status,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
