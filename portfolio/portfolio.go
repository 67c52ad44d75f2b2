// Package portfolio owns the locally cached account state and executes
// trading decisions against the brokerage.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/smarttrader/broker"
	"github.com/rustyeddy/smarttrader/journal"
	"github.com/rustyeddy/smarttrader/ratelimit"
	"github.com/rustyeddy/smarttrader/risk"
	"github.com/rustyeddy/smarttrader/signal"
)

var (
	// ErrOrderRejected means the order was refused before or at the
	// brokerage: sizing too small, not enough buying power, or a
	// terminal rejected/canceled status.
	ErrOrderRejected = errors.New("order rejected")

	// ErrUnknownOutcome means the order was submitted but its fill was
	// not confirmed within the polling deadline. The local ledger is
	// NOT updated; the next reconciliation resolves the truth.
	ErrUnknownOutcome = errors.New("order outcome unknown")
)

// Position is the ledger's view of one holding. Shares are signed:
// negative means short. BuyPrice is the average entry, reset to 0 when
// the position goes flat. CurrentPrice and UnrealizedPL refresh on
// every reconciliation.
type Position struct {
	Symbol       string
	Shares       float64
	BuyPrice     float64
	CurrentPrice float64
	UnrealizedPL float64
}

// Config wires a Portfolio. Broker and Limiter are required.
type Config struct {
	Broker  broker.Broker
	Limiter *ratelimit.Limiter
	Policy  risk.Policy
	Journal journal.Journal // optional
	Log     *slog.Logger    // optional

	PollInterval  time.Duration // default 1s
	PollDeadline  time.Duration // default 30s
	RetryAttempts int           // default 3
	RetryBackoff  time.Duration // default 2s
}

// Portfolio is the only stateful component: a cached mirror of the
// brokerage account plus the order execution pipeline. Per-symbol
// locks guarantee no two operations on the same symbol overlap.
type Portfolio struct {
	cfg Config
	log *slog.Logger

	mu          sync.Mutex
	positions   map[string]*Position
	buyingPower float64
	equity      float64

	lockMu   sync.Mutex
	symLocks map[string]*sync.Mutex
}

func New(cfg Config) *Portfolio {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollDeadline == 0 {
		cfg.PollDeadline = 30 * time.Second
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 2 * time.Second
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	return &Portfolio{
		cfg:       cfg,
		log:       log,
		positions: make(map[string]*Position),
		symLocks:  make(map[string]*sync.Mutex),
	}
}

// symbolLock returns the mutex serializing operations on one symbol.
func (p *Portfolio) symbolLock(symbol string) *sync.Mutex {
	p.lockMu.Lock()
	defer p.lockMu.Unlock()

	l, ok := p.symLocks[symbol]
	if !ok {
		l = &sync.Mutex{}
		p.symLocks[symbol] = l
	}
	return l
}

// UpdatePositions reconciles the local ledger from the brokerage's
// authoritative account state. Broker positions overwrite local ones;
// a local position the broker no longer reports is kept and logged so
// an in-flight fill is never silently forgotten.
func (p *Portfolio) UpdatePositions(ctx context.Context) error {
	var acct broker.Account
	err := p.withRetry(ctx, "get account", func() error {
		var e error
		acct, e = p.cfg.Broker.GetAccount(ctx)
		return e
	})
	if err != nil {
		return fmt.Errorf("update positions: %w", err)
	}

	var remote []broker.Position
	err = p.withRetry(ctx, "list positions", func() error {
		var e error
		remote, e = p.cfg.Broker.ListPositions(ctx)
		return e
	})
	if err != nil {
		return fmt.Errorf("update positions: %w", err)
	}

	// Some reports omit the latest trade price; fetch it per held
	// symbol so the ledger's mark is never stale.
	for i := range remote {
		rp := &remote[i]
		if rp.Shares == 0 || rp.CurrentPrice != 0 {
			continue
		}
		var price float64
		perr := p.withRetry(ctx, "latest price", func() error {
			var e error
			price, e = p.cfg.Broker.GetLatestPrice(ctx, rp.Symbol)
			return e
		})
		if perr != nil {
			p.log.Warn("latest price unavailable", "symbol", rp.Symbol, "error", perr)
			continue
		}
		rp.CurrentPrice = price
		if rp.UnrealizedPL == 0 {
			rp.UnrealizedPL = (price - rp.AvgEntryPrice) * rp.Shares
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buyingPower = acct.BuyingPower
	p.equity = acct.Equity

	seen := make(map[string]bool, len(remote))
	for _, rp := range remote {
		seen[rp.Symbol] = true
		p.positions[rp.Symbol] = &Position{
			Symbol:       rp.Symbol,
			Shares:       rp.Shares,
			BuyPrice:     rp.AvgEntryPrice,
			CurrentPrice: rp.CurrentPrice,
			UnrealizedPL: rp.UnrealizedPL,
		}
	}
	for sym, pos := range p.positions {
		if !seen[sym] && pos.Shares != 0 {
			p.log.Warn("local position missing from broker report",
				"symbol", sym, "shares", pos.Shares)
		}
	}

	return nil
}

// Snapshot returns a point-in-time copy of the ledger for evaluation
// and scoring. The copy is detached; mutating it has no effect here.
func (p *Portfolio) Snapshot() signal.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := signal.Snapshot{
		BuyingPower: p.buyingPower,
		Positions:   make(map[string]signal.PositionView, len(p.positions)),
	}
	for sym, pos := range p.positions {
		snap.Positions[sym] = signal.PositionView{
			Shares:     pos.Shares,
			EntryPrice: pos.BuyPrice,
		}
	}
	return snap
}

// Positions lists current holdings sorted by symbol, flat ones
// excluded.
func (p *Portfolio) Positions() []Position {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		if pos.Shares != 0 {
			out = append(out, *pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// BuyingPower returns the cached buying power.
func (p *Portfolio) BuyingPower() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buyingPower
}

// position returns a copy of one holding and whether it exists.
func (p *Portfolio) position(symbol string) (Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// applyFill updates the ledger optimistically from a confirmed fill.
// The next reconciliation replaces these numbers with the broker's.
func (p *Portfolio) applyFill(symbol string, side broker.Side, qty, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[symbol]
	if !ok {
		pos = &Position{Symbol: symbol}
		p.positions[symbol] = pos
	}

	delta := qty
	if side == broker.SideSell {
		delta = -qty
	}

	prev := pos.Shares
	pos.Shares += delta
	switch {
	case pos.Shares == 0:
		pos.BuyPrice = 0
	case prev == 0 || (prev > 0) != (pos.Shares > 0):
		pos.BuyPrice = price
	case (delta > 0) == (prev > 0):
		pos.BuyPrice = (pos.BuyPrice*abs(prev) + price*abs(delta)) / abs(pos.Shares)
	}
	pos.CurrentPrice = price
	pos.UnrealizedPL = (price - pos.BuyPrice) * pos.Shares

	if side == broker.SideBuy {
		p.buyingPower -= qty * price
	} else {
		p.buyingPower += qty * price
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
