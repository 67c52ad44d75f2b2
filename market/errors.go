package market

import "errors"

// ErrDataUnavailable marks a fetch that returned nothing usable or a
// history too short for the requested lookback. Callers recover by
// skipping the symbol for the current cycle.
var ErrDataUnavailable = errors.New("market data unavailable")
