package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetSignal returns a single signal record by ID.
func (j *SQLite) GetSignal(id string) (SignalRecord, error) {
	var rec SignalRecord

	row := j.db.QueryRow(`
		SELECT id, symbol, time, regime, action, price, qty, score, profit, conditions
		FROM signals
		WHERE id = ?`, id)

	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&rec.Time,
		&rec.Regime,
		&rec.Action,
		&rec.Price,
		&rec.Qty,
		&rec.Score,
		&rec.Profit,
		&rec.Conditions,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return SignalRecord{}, fmt.Errorf("signal %q not found", id)
		}
		return SignalRecord{}, err
	}
	return rec, nil
}

// ListSignalsBetween returns signals for one symbol whose time is
// within [start, end).
func (j *SQLite) ListSignalsBetween(symbol string, start, end time.Time) ([]SignalRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, symbol, time, regime, action, price, qty, score, profit, conditions
		FROM signals
		WHERE symbol = ? AND time >= ? AND time < ?
		ORDER BY time ASC`, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Symbol,
			&rec.Time,
			&rec.Regime,
			&rec.Action,
			&rec.Price,
			&rec.Qty,
			&rec.Score,
			&rec.Profit,
			&rec.Conditions,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFills returns every fill for one symbol ordered by submit time.
func (j *SQLite) ListFills(symbol string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, signal_id, symbol, side, qty, fill_price, submitted_at, filled_at, status
		FROM fills
		WHERE symbol = ?
		ORDER BY submitted_at ASC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.SignalID,
			&rec.Symbol,
			&rec.Side,
			&rec.Qty,
			&rec.FillPrice,
			&rec.SubmittedAt,
			&rec.FilledAt,
			&rec.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
