package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/smarttrader/signal"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	signalsPath := filepath.Join(dir, "signals.csv")
	fillsPath := filepath.Join(dir, "fills.csv")

	j, err := NewCSV(signalsPath, fillsPath)
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	signalsData, err := os.ReadFile(signalsPath)
	assert.NoError(t, err)
	fillsData, err := os.ReadFile(fillsPath)
	assert.NoError(t, err)

	signalsHeader, err := csv.NewReader(strings.NewReader(string(signalsData))).Read()
	assert.NoError(t, err)
	fillsHeader, err := csv.NewReader(strings.NewReader(string(fillsData))).Read()
	assert.NoError(t, err)

	wantSignals := []string{"id", "symbol", "time", "regime", "action", "price", "qty", "score", "profit", "conditions"}
	assert.Equal(t, wantSignals, signalsHeader)

	wantFills := []string{"order_id", "signal_id", "symbol", "side", "qty", "fill_price", "submitted_at", "filled_at", "status"}
	assert.Equal(t, wantFills, fillsHeader)
}

func TestCSVJournalRecordSignal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	signalsPath := filepath.Join(dir, "signals.csv")
	fillsPath := filepath.Join(dir, "fills.csv")

	j, err := NewCSV(signalsPath, fillsPath)
	assert.NoError(t, err)

	at := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	err = j.RecordSignal(SignalRecord{
		ID:         "S1",
		Symbol:     "AAPL",
		Time:       at,
		Regime:     "bullish",
		Action:     "buy",
		Price:      110,
		Qty:        9,
		Score:      4,
		Conditions: "bullish_cross|advanced_bullish_cross",
	})
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(signalsPath)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	_, err = reader.Read() // header
	assert.NoError(t, err)
	row, err := reader.Read()
	assert.NoError(t, err)

	want := []string{
		"S1",
		"AAPL",
		"2025-06-02T14:30:00Z",
		"bullish",
		"buy",
		"110.000000",
		"9.000000",
		"4.000000",
		"0.000000",
		"bullish_cross|advanced_bullish_cross",
	}
	assert.Equal(t, want, row)
}

func TestFromSignal(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	rec := FromSignal(signal.Signal{
		ID:     "S2",
		Symbol: "MSFT",
		Time:   at,
		Regime: "bearish",
		Action: signal.Sell,
		Price:  12,
		Qty:    50,
		Score:  2.5,
		Profit: 100,
		Fired:  []string{"overbought", "exit_bullish"},
	})

	assert.Equal(t, "sell", rec.Action)
	assert.Equal(t, "overbought|exit_bullish", rec.Conditions)
	assert.Equal(t, 100.0, rec.Profit)
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	at := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	rec := SignalRecord{
		ID:         "S3",
		Symbol:     "AAPL",
		Time:       at,
		Regime:     "bullish",
		Action:     "buy",
		Price:      110,
		Qty:        9,
		Score:      4,
		Conditions: "advanced_bullish_cross",
	}
	require.NoError(t, j.RecordSignal(rec))

	got, err := j.GetSignal("S3")
	require.NoError(t, err)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Action, got.Action)
	assert.Equal(t, rec.Score, got.Score)
	assert.True(t, rec.Time.Equal(got.Time))

	_, err = j.GetSignal("missing")
	assert.Error(t, err)
}

func TestSQLiteListSignalsBetween(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordSignal(SignalRecord{
			ID:     string(rune('A' + i)),
			Symbol: "AAPL",
			Time:   base.Add(time.Duration(i) * time.Minute),
			Regime: "bullish",
			Action: "hold",
		}))
	}
	require.NoError(t, j.RecordSignal(SignalRecord{
		ID: "other", Symbol: "MSFT", Time: base, Regime: "bullish", Action: "hold",
	}))

	got, err := j.ListSignalsBetween("AAPL", base, base.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "C", got[2].ID)
}

func TestSQLiteFills(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	at := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	require.NoError(t, j.RecordFill(FillRecord{
		OrderID:     "O1",
		SignalID:    "S1",
		Symbol:      "AAPL",
		Side:        "buy",
		Qty:         9,
		FillPrice:   110.25,
		SubmittedAt: at,
		FilledAt:    at.Add(2 * time.Second),
		Status:      "filled",
	}))

	got, err := j.ListFills("AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "O1", got[0].OrderID)
	assert.Equal(t, 110.25, got[0].FillPrice)

	got, err = j.ListFills("MSFT")
	require.NoError(t, err)
	assert.Empty(t, got)
}
