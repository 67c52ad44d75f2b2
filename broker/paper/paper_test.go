package paper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/smarttrader/broker"
)

func submit(t *testing.T, b *Broker, symbol string, qty float64, side broker.Side) broker.Order {
	t.Helper()
	o, err := b.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: symbol, Qty: qty, Side: side, Type: broker.TypeMarket, TimeInForce: broker.TIFDay,
	})
	require.NoError(t, err)

	filled, err := b.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, filled.Filled())
	return filled
}

func TestFillAppliesPositionAndCash(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{BuyingPower: 10000, Cash: 10000})
	b.SetPrice("AAPL", 100)

	o := submit(t, b, "AAPL", 10, broker.SideBuy)
	assert.Equal(t, 100.0, o.FilledAvgPrice)

	acct, _ := b.GetAccount(context.Background())
	assert.Equal(t, 9000.0, acct.BuyingPower)

	positions, _ := b.ListPositions(context.Background())
	require.Len(t, positions, 1)
	assert.Equal(t, 10.0, positions[0].Shares)
	assert.Equal(t, 100.0, positions[0].AvgEntryPrice)
}

func TestAddingAveragesEntry(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{BuyingPower: 10000})
	b.SetPrice("AAPL", 100)
	submit(t, b, "AAPL", 10, broker.SideBuy)

	b.SetPrice("AAPL", 110)
	submit(t, b, "AAPL", 10, broker.SideBuy)

	positions, _ := b.ListPositions(context.Background())
	require.Len(t, positions, 1)
	assert.Equal(t, 20.0, positions[0].Shares)
	assert.InDelta(t, 105.0, positions[0].AvgEntryPrice, 1e-9)
}

func TestFullExitResetsEntry(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{BuyingPower: 10000})
	b.SetPrice("AAPL", 100)
	submit(t, b, "AAPL", 10, broker.SideBuy)
	submit(t, b, "AAPL", 10, broker.SideSell)

	positions, _ := b.ListPositions(context.Background())
	require.Len(t, positions, 1)
	assert.Zero(t, positions[0].Shares)
	assert.Zero(t, positions[0].AvgEntryPrice)
}

func TestFillAfterPollsDelaysFill(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{BuyingPower: 10000})
	b.SetPrice("AAPL", 100)
	b.FillAfterPolls = 2

	o, err := b.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "AAPL", Qty: 1, Side: broker.SideBuy, Type: broker.TypeMarket,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := b.GetOrder(context.Background(), o.ID)
		require.NoError(t, err)
		assert.False(t, got.Filled(), "poll %d should not fill yet", i+1)
	}
	got, err := b.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, got.Filled())
}

func TestFailNextSubmit(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{BuyingPower: 10000})
	b.SetPrice("AAPL", 100)

	boom := errors.New("boom")
	b.FailNextSubmit(boom)

	_, err := b.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "AAPL", Qty: 1, Side: broker.SideBuy,
	})
	assert.ErrorIs(t, err, boom)

	_, err = b.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "AAPL", Qty: 1, Side: broker.SideBuy,
	})
	assert.NoError(t, err, "only the next submit fails")
}

func TestUnknownSymbolRejected(t *testing.T) {
	t.Parallel()

	b := New(broker.Account{})
	_, err := b.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "NOPE", Qty: 1, Side: broker.SideBuy,
	})

	var se *broker.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 422, se.Code)
	assert.False(t, se.Transient())
}
