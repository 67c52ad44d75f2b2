package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/smarttrader/broker"
	"github.com/rustyeddy/smarttrader/internal/id"
	"github.com/rustyeddy/smarttrader/journal"
	"github.com/rustyeddy/smarttrader/risk"
	"github.com/rustyeddy/smarttrader/signal"
)

// Execute carries out one scored decision. Hold is a no-op. The error
// taxonomy matters to callers: ErrOrderRejected means nothing changed,
// ErrUnknownOutcome means reconcile before trusting the ledger.
func (p *Portfolio) Execute(ctx context.Context, sig signal.Signal) error {
	switch sig.Action {
	case signal.Buy:
		return p.Buy(ctx, sig.Symbol, sig.Qty, sig.Price, sig.ID)
	case signal.Sell:
		return p.Sell(ctx, sig.Symbol, sig.ID)
	case signal.Short:
		return p.Short(ctx, sig.Symbol, sig.Qty, sig.Price, sig.ID)
	case signal.Cover:
		return p.Cover(ctx, sig.Symbol, sig.ID)
	case signal.HoldA:
		p.log.Debug("holding", "symbol", sig.Symbol, "score", sig.Score)
		return nil
	default:
		return fmt.Errorf("unknown action %q", sig.Action)
	}
}

// Buy opens or adds to a long position with a bracket order. The
// requested qty is capped by the policy's fraction-of-equity sizing.
func (p *Portfolio) Buy(ctx context.Context, symbol string, qty, price float64, signalID string) error {
	lock := p.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	return p.enter(ctx, symbol, qty, price, signalID, false)
}

// Short opens or adds to a short position with a mirrored bracket.
func (p *Portfolio) Short(ctx context.Context, symbol string, qty, price float64, signalID string) error {
	lock := p.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	if pos, ok := p.position(symbol); ok && pos.Shares > 0 {
		return fmt.Errorf("short %s while long %.0f shares: %w", symbol, pos.Shares, ErrOrderRejected)
	}
	return p.enter(ctx, symbol, qty, price, signalID, true)
}

// Sell closes the full long position at market.
func (p *Portfolio) Sell(ctx context.Context, symbol, signalID string) error {
	lock := p.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	pos, ok := p.position(symbol)
	if !ok || pos.Shares <= 0 {
		return fmt.Errorf("sell %s: no long position: %w", symbol, ErrOrderRejected)
	}
	return p.exit(ctx, symbol, pos.Shares, broker.SideSell, signalID)
}

// Cover buys back the full short position at market.
func (p *Portfolio) Cover(ctx context.Context, symbol, signalID string) error {
	lock := p.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	pos, ok := p.position(symbol)
	if !ok || pos.Shares >= 0 {
		return fmt.Errorf("cover %s: no short position: %w", symbol, ErrOrderRejected)
	}
	return p.exit(ctx, symbol, -pos.Shares, broker.SideBuy, signalID)
}

// ManageRisk liquidates every long position larger than the policy
// minimum with a market sell, after refreshing the ledger from the
// brokerage. Shorts are left alone; their bracket legs already bound
// the loss. A symbol's failure does not stop the sweep.
func (p *Portfolio) ManageRisk(ctx context.Context) error {
	if err := p.UpdatePositions(ctx); err != nil {
		return fmt.Errorf("manage risk: %w", err)
	}

	var lastErr error
	for _, pos := range p.Positions() {
		if pos.Shares <= p.cfg.Policy.MinQty {
			continue
		}

		lock := p.symbolLock(pos.Symbol)
		lock.Lock()
		err := p.exit(ctx, pos.Symbol, pos.Shares, broker.SideSell, "")
		lock.Unlock()
		if err != nil {
			p.log.Error("liquidation failed", "symbol", pos.Symbol, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

// enter sizes, brackets, submits and confirms a new entry, then
// applies the fill to the ledger. Caller holds the symbol lock.
func (p *Portfolio) enter(ctx context.Context, symbol string, qty, price float64, signalID string, short bool) error {
	p.mu.Lock()
	equity, buyingPower := p.equity, p.buyingPower
	p.mu.Unlock()

	d := risk.CheckEntry(p.cfg.Policy, equity, buyingPower, price)
	if !d.Allowed {
		return fmt.Errorf("enter %s: %s: %w", symbol, d.Violations[0].Msg, ErrOrderRejected)
	}
	if qty <= 0 || qty > d.Qty {
		qty = d.Qty
	}

	side := broker.SideBuy
	if short {
		side = broker.SideSell
	}
	stop, takeProfit := risk.BracketLegs(p.cfg.Policy, price, short)

	req := broker.OrderRequest{
		ClientOrderID: id.New(),
		Symbol:        symbol,
		Qty:           qty,
		Side:          side,
		Type:          broker.TypeMarket,
		TimeInForce:   broker.TIFDay,
		Bracket: &broker.Bracket{
			StopLossStop:    stop,
			TakeProfitLimit: takeProfit,
		},
	}

	action := "buy"
	if short {
		action = "short"
	}
	p.log.Info("submitting entry",
		"symbol", symbol, "action", action, "qty", qty,
		"price", price, "stop", stop, "take_profit", takeProfit)

	order, err := p.executeOrder(ctx, req, signalID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, symbol, err)
	}

	p.applyFill(symbol, side, order.Qty, order.FilledAvgPrice)
	p.log.Info("entry filled",
		"symbol", symbol, "action", action, "qty", order.Qty, "fill_price", order.FilledAvgPrice)
	return nil
}

// exit closes a position at market, full size, no bracket. Caller
// holds the symbol lock.
func (p *Portfolio) exit(ctx context.Context, symbol string, qty float64, side broker.Side, signalID string) error {
	req := broker.OrderRequest{
		ClientOrderID: id.New(),
		Symbol:        symbol,
		Qty:           qty,
		Side:          side,
		Type:          broker.TypeMarket,
		TimeInForce:   broker.TIFDay,
	}

	action := "sell"
	if side == broker.SideBuy {
		action = "cover"
	}
	p.log.Info("submitting exit", "symbol", symbol, "action", action, "qty", qty)

	order, err := p.executeOrder(ctx, req, signalID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, symbol, err)
	}

	p.applyFill(symbol, side, order.Qty, order.FilledAvgPrice)
	p.log.Info("exit filled",
		"symbol", symbol, "action", action, "qty", order.Qty, "fill_price", order.FilledAvgPrice)
	return nil
}

// executeOrder submits with retries and polls to a terminal status.
func (p *Portfolio) executeOrder(ctx context.Context, req broker.OrderRequest, signalID string) (broker.Order, error) {
	var order broker.Order
	err := p.withRetry(ctx, "submit order", func() error {
		var e error
		order, e = p.cfg.Broker.SubmitOrder(ctx, req)
		return e
	})
	if err != nil {
		return broker.Order{}, fmt.Errorf("%w: %v", ErrOrderRejected, err)
	}

	final, err := p.pollFill(ctx, order.ID)
	if final.ID == "" {
		// Failed polls surface a zero order; journal the submitted one
		// so the row keeps its real order ID.
		final = order
	}
	p.journalFill(final, req, signalID, err)
	if err != nil {
		return broker.Order{}, err
	}
	return final, nil
}

// pollFill re-reads the order until it reaches a terminal status or
// the deadline passes.
func (p *Portfolio) pollFill(ctx context.Context, orderID string) (broker.Order, error) {
	deadline := time.Now().Add(p.cfg.PollDeadline)

	for {
		if err := p.cfg.Limiter.Await(ctx); err != nil {
			return broker.Order{}, fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
		}

		order, err := p.cfg.Broker.GetOrder(ctx, orderID)
		if err == nil {
			if order.Filled() {
				return order, nil
			}
			if order.Terminal() {
				return order, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrOrderRejected)
			}
		} else if !broker.IsTransient(err) {
			return broker.Order{}, fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
		}

		if time.Now().After(deadline) {
			return broker.Order{}, fmt.Errorf("order %s not confirmed within %s: %w",
				orderID, p.cfg.PollDeadline, ErrUnknownOutcome)
		}
		select {
		case <-ctx.Done():
			return broker.Order{}, fmt.Errorf("%w: %v", ErrUnknownOutcome, ctx.Err())
		case <-time.After(p.cfg.PollInterval):
		}
	}
}

// withRetry wraps one brokerage call with the rate limiter and the
// transient-error retry policy.
func (p *Portfolio) withRetry(ctx context.Context, what string, call func() error) error {
	var err error
	for attempt := 1; attempt <= p.cfg.RetryAttempts; attempt++ {
		if lerr := p.cfg.Limiter.Await(ctx); lerr != nil {
			return lerr
		}

		if err = call(); err == nil {
			return nil
		}
		if !broker.IsTransient(err) {
			return err
		}

		p.log.Warn("brokerage call failed",
			"call", what, "attempt", attempt, "error", err)
		if attempt < p.cfg.RetryAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.RetryBackoff):
			}
		}
	}
	return fmt.Errorf("%s: %d attempts: %w", what, p.cfg.RetryAttempts, err)
}

// journalFill records the order outcome when a journal is configured.
func (p *Portfolio) journalFill(order broker.Order, req broker.OrderRequest, signalID string, pollErr error) {
	if p.cfg.Journal == nil {
		return
	}

	status := string(order.Status)
	if pollErr != nil && !order.Terminal() {
		status = "unknown"
	}
	rec := journal.FillRecord{
		OrderID:     order.ID,
		SignalID:    signalID,
		Symbol:      req.Symbol,
		Side:        string(req.Side),
		Qty:         order.Qty,
		FillPrice:   order.FilledAvgPrice,
		SubmittedAt: order.SubmittedAt,
		FilledAt:    time.Now().UTC(),
		Status:      status,
	}
	if err := p.cfg.Journal.RecordFill(rec); err != nil {
		p.log.Error("journal fill", "symbol", req.Symbol, "error", err)
	}
}
