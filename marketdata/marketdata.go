// Package marketdata defines the bar-fetching contract the agent
// consumes. Implementations live in subpackages.
package marketdata

import (
	"context"
	"time"

	"github.com/rustyeddy/smarttrader/market"
)

// Source fetches ordered bar series for one symbol. Implementations
// return market.ErrDataUnavailable (possibly wrapped) when the
// provider has nothing usable for the requested range.
type Source interface {
	// Intraday returns minute-resolution bars covering [from, to].
	Intraday(ctx context.Context, symbol string, from, to time.Time) (*market.BarSet, error)

	// Daily returns daily bars covering [from, to].
	Daily(ctx context.Context, symbol string, from, to time.Time) (*market.BarSet, error)
}
