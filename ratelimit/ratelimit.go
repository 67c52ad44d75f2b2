// Package ratelimit implements the fixed-window request limiter shared
// by the brokerage and market-data clients.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter counts requests within a fixed window. When the ceiling is
// reached before the window elapses, Await blocks for the remainder of
// the window, then resets the counter. One Limiter is owned per
// upstream connection; it is safe for concurrent use.
type Limiter struct {
	mu           sync.Mutex
	requestsMade int
	windowStart  time.Time

	limit  int
	window time.Duration
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

// New returns a Limiter allowing limit requests per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Await consumes one request slot, blocking if the window's ceiling has
// been reached. It returns early with ctx.Err() on cancellation; the
// slot is not consumed in that case.
func (l *Limiter) Await(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.requestsMade = 0
	}

	if l.requestsMade >= l.limit {
		wait := l.window - now.Sub(l.windowStart)
		if wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}
		l.windowStart = l.now()
		l.requestsMade = 0
	}

	l.requestsMade++
	return nil
}

// RequestsMade reports the counter for the current window.
func (l *Limiter) RequestsMade() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requestsMade
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
