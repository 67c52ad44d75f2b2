// Package paper is an in-memory broker for tests and offline runs.
// Fills are simulated at the latest set price.
package paper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/smarttrader/broker"
	"github.com/rustyeddy/smarttrader/internal/id"
)

type Broker struct {
	mu        sync.Mutex
	acct      broker.Account
	prices    map[string]float64
	positions map[string]*broker.Position
	orders    map[string]*broker.Order
	clock     broker.Clock

	// FillAfterPolls delays fills by that many GetOrder calls per
	// order. Zero fills on the first poll.
	FillAfterPolls int
	polls          map[string]int

	submitErrs []error
}

func New(acct broker.Account) *Broker {
	return &Broker{
		acct:      acct,
		prices:    make(map[string]float64),
		positions: make(map[string]*broker.Position),
		orders:    make(map[string]*broker.Order),
		polls:     make(map[string]int),
		clock:     broker.Clock{IsOpen: true, Timestamp: time.Now()},
	}
}

// SetPrice sets the latest traded price for a symbol.
func (b *Broker) SetPrice(symbol string, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prices[symbol] = price
}

// SetClock overrides the market clock.
func (b *Broker) SetClock(c broker.Clock) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = c
}

// SetPosition seeds a holding, as if established out-of-band.
func (b *Broker) SetPosition(p broker.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := p
	b.positions[p.Symbol] = &cp
}

// FailNextSubmit queues an error to be returned by the next SubmitOrder.
func (b *Broker) FailNextSubmit(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitErrs = append(b.submitErrs, err)
}

func (b *Broker) GetAccount(ctx context.Context) (broker.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acct, nil
}

func (b *Broker) ListPositions(ctx context.Context) ([]broker.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]broker.Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, *p)
	}
	return out, nil
}

func (b *Broker) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("paper: no price for %q", symbol)
	}
	return p, nil
}

func (b *Broker) SubmitOrder(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.submitErrs) > 0 {
		err := b.submitErrs[0]
		b.submitErrs = b.submitErrs[1:]
		return broker.Order{}, err
	}

	if _, ok := b.prices[req.Symbol]; !ok {
		return broker.Order{}, &broker.StatusError{Code: 422, Body: fmt.Sprintf("unknown symbol %q", req.Symbol)}
	}
	if req.Qty <= 0 {
		return broker.Order{}, &broker.StatusError{Code: 422, Body: "qty must be positive"}
	}

	o := &broker.Order{
		ID:            id.New(),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Qty:           req.Qty,
		Side:          req.Side,
		Status:        broker.StatusAccepted,
		SubmittedAt:   time.Now(),
	}
	b.orders[o.ID] = o
	return *o, nil
}

func (b *Broker) GetOrder(ctx context.Context, orderID string) (broker.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return broker.Order{}, &broker.StatusError{Code: 404, Body: fmt.Sprintf("order %q not found", orderID)}
	}

	if !o.Terminal() {
		b.polls[orderID]++
		if b.polls[orderID] > b.FillAfterPolls {
			b.fillLocked(o)
		}
	}
	return *o, nil
}

func (b *Broker) GetClock(ctx context.Context) (broker.Clock, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clock, nil
}

// fillLocked executes the order at the latest price and applies the
// position and buying-power deltas the way a real account would.
func (b *Broker) fillLocked(o *broker.Order) {
	price := b.prices[o.Symbol]
	o.Status = broker.StatusFilled
	o.FilledAvgPrice = price

	pos, ok := b.positions[o.Symbol]
	if !ok {
		pos = &broker.Position{Symbol: o.Symbol}
		b.positions[o.Symbol] = pos
	}

	delta := o.Qty
	if o.Side == broker.SideSell {
		delta = -o.Qty
	}

	prev := pos.Shares
	pos.Shares += delta
	switch {
	case pos.Shares == 0:
		pos.AvgEntryPrice = 0
	case prev == 0 || (prev > 0) != (pos.Shares > 0):
		pos.AvgEntryPrice = price
	case (delta > 0) == (prev > 0):
		// Adding to an existing position: volume-weighted entry.
		pos.AvgEntryPrice = (pos.AvgEntryPrice*abs(prev) + price*abs(delta)) / abs(pos.Shares)
	}

	pos.CurrentPrice = price
	pos.UnrealizedPL = (price - pos.AvgEntryPrice) * pos.Shares

	if o.Side == broker.SideBuy {
		b.acct.BuyingPower -= o.Qty * price
		b.acct.Cash -= o.Qty * price
	} else {
		b.acct.BuyingPower += o.Qty * price
		b.acct.Cash += o.Qty * price
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
