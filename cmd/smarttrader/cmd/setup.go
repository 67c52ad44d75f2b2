package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rustyeddy/smarttrader/agent"
	"github.com/rustyeddy/smarttrader/broker/alpaca"
	"github.com/rustyeddy/smarttrader/config"
	"github.com/rustyeddy/smarttrader/journal"
	"github.com/rustyeddy/smarttrader/marketdata/tiingo"
	"github.com/rustyeddy/smarttrader/portfolio"
	"github.com/rustyeddy/smarttrader/ratelimit"
	"github.com/rustyeddy/smarttrader/regime"
	"github.com/rustyeddy/smarttrader/risk"
	"github.com/rustyeddy/smarttrader/signal"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func buildLimiter(cfg *config.Config) (*ratelimit.Limiter, error) {
	window, err := cfg.Limits.ParseWindow()
	if err != nil {
		return nil, fmt.Errorf("limits.window: %w", err)
	}
	if window == 0 {
		window = time.Minute
	}
	return ratelimit.New(cfg.Limits.Requests, window), nil
}

func buildBroker(cfg *config.Config) (*alpaca.Client, error) {
	base, err := alpaca.BaseURL(cfg.Account.Env)
	if err != nil {
		return nil, err
	}
	return &alpaca.Client{
		BaseURL: base,
		Key:     cfg.Account.Key,
		Secret:  cfg.Account.Secret,
	}, nil
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "csv" {
		return journal.NewCSV(cfg.Journal.SignalsFile, cfg.Journal.FillsFile)
	}
	return journal.NewSQLite(cfg.Journal.DBPath)
}

func buildClassifier(cfg *config.Config) *regime.Classifier {
	c := &regime.Classifier{
		Params: regime.Params{
			ShortPeriod: cfg.Regime.ShortPeriod,
			LongPeriod:  cfg.Regime.LongPeriod,
			ADXPeriod:   cfg.Regime.ADXPeriod,
			ATRPeriod:   cfg.Regime.ATRPeriod,
		},
	}
	if cfg.Regime.AuditDir != "" {
		c.Audit = &regime.FileSink{Dir: cfg.Regime.AuditDir}
	}
	return c
}

func buildPortfolio(cfg *config.Config, b *alpaca.Client, limiter *ratelimit.Limiter, j journal.Journal, log *slog.Logger) (*portfolio.Portfolio, error) {
	pollInterval, err := parseDur("executor.poll_interval", cfg.Executor.PollInterval)
	if err != nil {
		return nil, err
	}
	pollDeadline, err := parseDur("executor.poll_deadline", cfg.Executor.PollDeadline)
	if err != nil {
		return nil, err
	}
	retryBackoff, err := parseDur("executor.retry_backoff", cfg.Executor.RetryBackoff)
	if err != nil {
		return nil, err
	}

	return portfolio.New(portfolio.Config{
		Broker:  b,
		Limiter: limiter,
		Policy: risk.Policy{
			InvestFraction: cfg.Risk.InvestFraction,
			MinQty:         cfg.Risk.MinQty,
			StopLossPct:    cfg.Risk.StopLossPct,
			TakeProfitPct:  cfg.Risk.TakeProfitPct,
		},
		Journal:       j,
		Log:           log,
		PollInterval:  pollInterval,
		PollDeadline:  pollDeadline,
		RetryAttempts: cfg.Executor.RetryAttempts,
		RetryBackoff:  retryBackoff,
	}), nil
}

func buildAgent(cfg *config.Config, log *slog.Logger) (*agent.Agent, journal.Journal, error) {
	limiter, err := buildLimiter(cfg)
	if err != nil {
		return nil, nil, err
	}
	b, err := buildBroker(cfg)
	if err != nil {
		return nil, nil, err
	}
	j, err := buildJournal(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create journal: %w", err)
	}
	p, err := buildPortfolio(cfg, b, limiter, j, log)
	if err != nil {
		j.Close()
		return nil, nil, err
	}

	cyclePause, err := parseDur("agent.cycle_pause", cfg.Agent.CyclePause)
	if err != nil {
		j.Close()
		return nil, nil, err
	}
	cycleDeadline, err := parseDur("agent.cycle_deadline", cfg.Agent.CycleDeadline)
	if err != nil {
		j.Close()
		return nil, nil, err
	}

	a := &agent.Agent{
		Data:          tiingo.NewClient(cfg.Data.Token, limiter),
		Broker:        b,
		Portfolio:     p,
		Scorer:        signal.NewScorer(),
		Classifier:    buildClassifier(cfg),
		Journal:       j,
		Limiter:       limiter,
		Log:           log,
		Universe:      cfg.Universe,
		LookbackDays:  cfg.Agent.LookbackDays,
		CyclePause:    cyclePause,
		CycleDeadline: cycleDeadline,
	}
	return a, j, nil
}

func parseDur(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
