package portfolio

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/smarttrader/broker"
	"github.com/rustyeddy/smarttrader/broker/paper"
	"github.com/rustyeddy/smarttrader/journal"
	"github.com/rustyeddy/smarttrader/ratelimit"
	"github.com/rustyeddy/smarttrader/risk"
	"github.com/rustyeddy/smarttrader/signal"
)

// recordJournal captures fill rows in memory.
type recordJournal struct {
	fills []journal.FillRecord
}

func (r *recordJournal) RecordSignal(journal.SignalRecord) error { return nil }
func (r *recordJournal) RecordFill(f journal.FillRecord) error {
	r.fills = append(r.fills, f)
	return nil
}
func (r *recordJournal) Close() error { return nil }

func newTestPortfolio(t *testing.T, b *paper.Broker) *Portfolio {
	t.Helper()
	return New(Config{
		Broker:       b,
		Limiter:      ratelimit.New(10000, time.Minute),
		Policy:       risk.DefaultPolicy(),
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		PollInterval: time.Millisecond,
		PollDeadline: time.Second,
		RetryBackoff: time.Millisecond,
	})
}

func TestBuyFlow(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("AAPL", 50)

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Execute(context.Background(), signal.Signal{
		ID: "S1", Symbol: "AAPL", Action: signal.Buy, Qty: 2000, Price: 50,
	})
	require.NoError(t, err)

	// Requested qty is capped by the 6% invest fraction: 6000 / 50.
	pos := p.Positions()
	require.Len(t, pos, 1)
	assert.Equal(t, 120.0, pos[0].Shares)
	assert.Equal(t, 50.0, pos[0].BuyPrice)
	assert.InDelta(t, 94000.0, p.BuyingPower(), 1e-9)
}

func TestSellFullExitResetsBuyPrice(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 1000, Equity: 1600})
	b.SetPrice("Y", 12)
	b.SetPosition(broker.Position{Symbol: "Y", Shares: 50, AvgEntryPrice: 10})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Sell(context.Background(), "Y", "S2")
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Zero(t, snap.Positions["Y"].Shares)
	assert.Zero(t, snap.Positions["Y"].EntryPrice, "buy price resets at flat")
	assert.InDelta(t, 1600.0, p.BuyingPower(), 1e-9, "proceeds of 50 shares at 12")
	assert.Empty(t, p.Positions(), "flat positions are not listed")
}

func TestSellWithoutLongRejected(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 1000, Equity: 1000})
	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Sell(context.Background(), "AAPL", "S3")
	assert.ErrorIs(t, err, ErrOrderRejected)
}

func TestShortWhileLongRejected(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("AAPL", 50)
	b.SetPosition(broker.Position{Symbol: "AAPL", Shares: 10, AvgEntryPrice: 40})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Short(context.Background(), "AAPL", 10, 50, "S4")
	assert.ErrorIs(t, err, ErrOrderRejected)
}

func TestShortAndCover(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("TSLA", 200)

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	require.NoError(t, p.Short(context.Background(), "TSLA", 0, 200, "S5"))
	pos := p.Positions()
	require.Len(t, pos, 1)
	assert.Equal(t, -30.0, pos[0].Shares) // floor(6000 / 200) short
	assert.Equal(t, 200.0, pos[0].BuyPrice)

	b.SetPrice("TSLA", 180)
	require.NoError(t, p.Cover(context.Background(), "TSLA", "S6"))
	assert.Empty(t, p.Positions())
}

func TestEntryTooSmallRejected(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100, Equity: 100})
	b.SetPrice("AAPL", 50)

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Buy(context.Background(), "AAPL", 10, 50, "S7")
	assert.ErrorIs(t, err, ErrOrderRejected)
	assert.Empty(t, p.Positions())
	assert.InDelta(t, 100.0, p.BuyingPower(), 1e-9, "rejected entry leaves the ledger unchanged")
}

func TestUnknownOutcomeLeavesLedgerAlone(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("AAPL", 50)
	b.FillAfterPolls = 1 << 20 // never fills within the deadline

	j := &recordJournal{}
	p := New(Config{
		Broker:       b,
		Limiter:      ratelimit.New(10000, time.Minute),
		Policy:       risk.DefaultPolicy(),
		Journal:      j,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		PollInterval: time.Millisecond,
		PollDeadline: 10 * time.Millisecond,
		RetryBackoff: time.Millisecond,
	})
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Buy(context.Background(), "AAPL", 10, 50, "S8")
	assert.ErrorIs(t, err, ErrUnknownOutcome)
	assert.Empty(t, p.Positions())
	assert.InDelta(t, 100000.0, p.BuyingPower(), 1e-9)

	// The abandoned attempt is journaled under the real order ID.
	require.Len(t, j.fills, 1)
	assert.NotEmpty(t, j.fills[0].OrderID)
	assert.Equal(t, "unknown", j.fills[0].Status)
	assert.Equal(t, "S8", j.fills[0].SignalID)
}

func TestReconciliationRefreshesPriceAndPL(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 6000})
	b.SetPosition(broker.Position{Symbol: "Y", Shares: 50, AvgEntryPrice: 10})
	b.SetPrice("Y", 12)
	b.SetPosition(broker.Position{Symbol: "Z", Shares: -5, AvgEntryPrice: 200})
	b.SetPrice("Z", 180)

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	pos := p.Positions()
	require.Len(t, pos, 2)
	assert.Equal(t, 12.0, pos[0].CurrentPrice)
	assert.InDelta(t, 100.0, pos[0].UnrealizedPL, 1e-9, "(12-10) x 50 long")
	assert.Equal(t, 180.0, pos[1].CurrentPrice)
	assert.InDelta(t, 100.0, pos[1].UnrealizedPL, 1e-9, "(180-200) x -5 short")
}

func TestReconciliationKeepsStaleLocalPosition(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 5000})

	var logs bytes.Buffer
	p := New(Config{
		Broker:       b,
		Limiter:      ratelimit.New(10000, time.Minute),
		Policy:       risk.DefaultPolicy(),
		Log:          slog.New(slog.NewTextHandler(&logs, nil)),
		PollInterval: time.Millisecond,
		PollDeadline: time.Second,
		RetryBackoff: time.Millisecond,
	})
	p.applyFill("GONE", broker.SideBuy, 10, 50)

	require.NoError(t, p.UpdatePositions(context.Background()))

	pos := p.Positions()
	require.Len(t, pos, 1, "locally held symbol absent from the broker report is kept")
	assert.Equal(t, "GONE", pos[0].Symbol)
	assert.Equal(t, 10.0, pos[0].Shares)
	assert.Contains(t, logs.String(), "local position missing from broker report")
}

func TestManageRiskLiquidatesLongs(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 6000})
	b.SetPosition(broker.Position{Symbol: "AAPL", Shares: 10, AvgEntryPrice: 100})
	b.SetPrice("AAPL", 110)
	b.SetPosition(broker.Position{Symbol: "MSFT", Shares: 1, AvgEntryPrice: 50})
	b.SetPrice("MSFT", 50)
	b.SetPosition(broker.Position{Symbol: "TSLA", Shares: -5, AvgEntryPrice: 200})
	b.SetPrice("TSLA", 180)

	p := newTestPortfolio(t, b)
	require.NoError(t, p.ManageRisk(context.Background()))

	snap := p.Snapshot()
	assert.Zero(t, snap.Positions["AAPL"].Shares, "longs above the minimum are sold")
	assert.Equal(t, 1.0, snap.Positions["MSFT"].Shares, "positions at the minimum stay")
	assert.Equal(t, -5.0, snap.Positions["TSLA"].Shares, "shorts are untouched")
	assert.InDelta(t, 6100.0, p.BuyingPower(), 1e-9, "proceeds of 10 shares at 110")
}

func TestTransientSubmitErrorRetried(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("AAPL", 50)
	b.FailNextSubmit(&broker.StatusError{Code: 503, Body: "upstream down"})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	require.NoError(t, p.Buy(context.Background(), "AAPL", 10, 50, "S9"))
	pos := p.Positions()
	require.Len(t, pos, 1)
	assert.Equal(t, 10.0, pos[0].Shares)
}

func TestNonTransientSubmitErrorNotRetried(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 100000, Equity: 100000})
	b.SetPrice("AAPL", 50)
	b.FailNextSubmit(&broker.StatusError{Code: 422, Body: "bad order"})
	b.FailNextSubmit(&broker.StatusError{Code: 422, Body: "bad order"})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Buy(context.Background(), "AAPL", 10, 50, "S10")
	assert.ErrorIs(t, err, ErrOrderRejected)
}

func TestIdempotentReconciliation(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 6000})
	b.SetPosition(broker.Position{Symbol: "AAPL", Shares: 10, AvgEntryPrice: 100})
	b.SetPosition(broker.Position{Symbol: "TSLA", Shares: -5, AvgEntryPrice: 200})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))
	first := p.Positions()

	require.NoError(t, p.UpdatePositions(context.Background()))
	second := p.Positions()

	assert.Equal(t, first, second)
	assert.InDelta(t, 5000.0, p.BuyingPower(), 1e-9)
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 6000})
	b.SetPosition(broker.Position{Symbol: "AAPL", Shares: 10, AvgEntryPrice: 100})

	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	snap := p.Snapshot()
	snap.Positions["AAPL"] = signal.PositionView{Shares: 999}
	assert.Equal(t, 10.0, p.Snapshot().Positions["AAPL"].Shares)
}

func TestHoldIsNoOp(t *testing.T) {
	t.Parallel()

	b := paper.New(broker.Account{BuyingPower: 5000, Equity: 5000})
	p := newTestPortfolio(t, b)
	require.NoError(t, p.UpdatePositions(context.Background()))

	err := p.Execute(context.Background(), signal.Signal{Symbol: "AAPL", Action: signal.HoldA})
	assert.NoError(t, err)
	assert.Empty(t, p.Positions())
}
