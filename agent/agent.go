// Package agent runs the trading loop: fetch, annotate, classify,
// score, execute, one symbol at a time.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/smarttrader/broker"
	"github.com/rustyeddy/smarttrader/indicators"
	"github.com/rustyeddy/smarttrader/journal"
	"github.com/rustyeddy/smarttrader/market"
	"github.com/rustyeddy/smarttrader/marketdata"
	"github.com/rustyeddy/smarttrader/portfolio"
	"github.com/rustyeddy/smarttrader/ratelimit"
	"github.com/rustyeddy/smarttrader/regime"
	"github.com/rustyeddy/smarttrader/signal"
)

// dailyLookbackDays covers the 200-day moving average plus weekends
// and holidays.
const dailyLookbackDays = 400

// Agent drives one account through repeated trading cycles.
type Agent struct {
	Data       marketdata.Source
	Broker     broker.Broker
	Portfolio  *portfolio.Portfolio
	Scorer     *signal.Scorer
	Classifier *regime.Classifier
	Journal    journal.Journal // optional
	Limiter    *ratelimit.Limiter
	Log        *slog.Logger

	Universe     []string
	LookbackDays int
	CyclePause   time.Duration

	// CycleDeadline bounds one full cycle. Zero means unbounded.
	CycleDeadline time.Duration

	// Now is overridable for tests.
	Now func() time.Time
}

func (a *Agent) log() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}

func (a *Agent) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// Run cycles until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	pause := a.CyclePause
	if pause == 0 {
		pause = time.Minute
	}

	for {
		if err := a.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.log().Error("cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}

// Cycle runs one full pass: market-clock gate, reconciliation, then
// every symbol in the universe, sequentially. A symbol's failure never
// stops the rest of the universe. With CycleDeadline set, every
// blocking wait inside the pass is bounded by it.
func (a *Agent) Cycle(ctx context.Context) error {
	if a.CycleDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.CycleDeadline)
		defer cancel()
	}

	if a.Limiter != nil {
		if err := a.Limiter.Await(ctx); err != nil {
			return err
		}
	}
	clock, err := a.Broker.GetClock(ctx)
	if err != nil {
		return fmt.Errorf("market clock: %w", err)
	}
	if !clock.IsOpen {
		a.log().Info("market closed", "next_open", clock.NextOpen)
		return nil
	}

	if err := a.Portfolio.UpdatePositions(ctx); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	for _, symbol := range a.Universe {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.TradeSymbol(ctx, symbol); err != nil {
			a.log().Warn("symbol skipped", "symbol", symbol, "error", err)
		}
	}
	return nil
}

// TradeSymbol evaluates and, when warranted, trades a single symbol.
func (a *Agent) TradeSymbol(ctx context.Context, symbol string) error {
	sig, err := a.Preview(ctx, symbol)
	if err != nil {
		if errors.Is(err, market.ErrDataUnavailable) {
			a.log().Warn("no data this cycle", "symbol", symbol)
			return nil
		}
		return err
	}

	if a.Journal != nil {
		if jerr := a.Journal.RecordSignal(journal.FromSignal(sig)); jerr != nil {
			a.log().Error("journal signal", "symbol", symbol, "error", jerr)
		}
	}

	err = a.Portfolio.Execute(ctx, sig)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, portfolio.ErrOrderRejected):
		a.log().Warn("order rejected", "symbol", symbol, "action", sig.Action, "error", err)
		return nil
	case errors.Is(err, portfolio.ErrUnknownOutcome):
		// The ledger may be stale; re-pull the truth before the next
		// symbol trades against it.
		a.log().Warn("order outcome unknown, reconciling", "symbol", symbol, "error", err)
		return a.Portfolio.UpdatePositions(ctx)
	default:
		return err
	}
}

// Preview produces the scored signal for one symbol from fresh data
// without executing it.
func (a *Agent) Preview(ctx context.Context, symbol string) (signal.Signal, error) {
	now := a.now()

	lookback := a.LookbackDays
	if lookback == 0 {
		lookback = 30
	}

	intraday, err := a.Data.Intraday(ctx, symbol, now.AddDate(0, 0, -lookback), now)
	if err != nil {
		return signal.Signal{}, err
	}
	daily, err := a.Data.Daily(ctx, symbol, now.AddDate(0, 0, -dailyLookbackDays), now)
	if err != nil {
		return signal.Signal{}, err
	}

	intraday.Bars = indicators.Annotate(intraday.Bars)
	intraday.TrimWarmup()
	if intraday.Len() == 0 {
		return signal.Signal{}, fmt.Errorf("evaluate %s: intraday history too short: %w",
			symbol, market.ErrDataUnavailable)
	}
	daily.Bars = indicators.Annotate(daily.Bars)

	reg, err := a.Classifier.Classify(symbol, daily)
	if err != nil {
		return signal.Signal{}, err
	}

	bar, err := intraday.Last()
	if err != nil {
		return signal.Signal{}, err
	}
	dailyBar, err := daily.Last()
	if err != nil {
		return signal.Signal{}, err
	}

	snap := a.Portfolio.Snapshot()
	conds := signal.Evaluate(bar, &dailyBar, snap)
	sig := a.Scorer.ScoreAndSelect(&conds, reg, snap, symbol, bar.Close, bar.Time)

	a.log().Info("scored",
		"symbol", symbol, "regime", reg, "action", sig.Action,
		"score", sig.Score, "price", sig.Price, "qty", sig.Qty)
	return sig, nil
}
