package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsOutOfOrder(t *testing.T) {
	t.Parallel()

	set := NewBarSet("AAPL", nil)
	base := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

	require.NoError(t, set.Append(Bar{Symbol: "AAPL", Time: base}))
	require.NoError(t, set.Append(Bar{Symbol: "AAPL", Time: base.Add(time.Minute)}))

	assert.Error(t, set.Append(Bar{Symbol: "AAPL", Time: base.Add(time.Minute)}), "duplicate timestamp")
	assert.Error(t, set.Append(Bar{Symbol: "AAPL", Time: base}), "earlier timestamp")
	assert.Equal(t, 2, set.Len())
}

func TestLastEmpty(t *testing.T) {
	t.Parallel()

	set := NewBarSet("AAPL", nil)
	_, err := set.Last()
	assert.Error(t, err)
}

func TestSortOrdersByTime(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	set := NewBarSet("AAPL", []Bar{
		{Time: base.Add(2 * time.Minute), Close: 3},
		{Time: base, Close: 1},
		{Time: base.Add(time.Minute), Close: 2},
	})
	set.Sort()

	assert.Equal(t, []float64{1, 2, 3}, set.Closes())
}

func TestTrimWarmup(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, 5)
	for i := range bars {
		bars[i] = Bar{Time: base.Add(time.Duration(i) * time.Minute), Close: float64(i)}
		if i >= 3 {
			bars[i].SMA200 = 100
		}
	}

	set := NewBarSet("AAPL", bars)
	set.TrimWarmup()
	require.Equal(t, 2, set.Len())
	assert.Equal(t, 3.0, set.Bars[0].Close)

	// All-warmup series trims to empty.
	empty := NewBarSet("AAPL", []Bar{{Time: base}, {Time: base.Add(time.Minute)}})
	empty.TrimWarmup()
	assert.Zero(t, empty.Len())
}
