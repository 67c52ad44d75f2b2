package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryQty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		equity      float64
		buyingPower float64
		price       float64
		want        float64
	}{
		{"fraction of equity", 100000, 100000, 50, 120}, // 6000 / 50
		{"capped by buying power", 100000, 1000, 50, 20},
		{"floors to whole shares", 100000, 100000, 70, 85}, // 6000 / 70 = 85.7
		{"zero price", 100000, 100000, 0, 0},
		{"tiny account", 100, 100, 50, 0},
	}

	p := DefaultPolicy()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EntryQty(p, tt.equity, tt.buyingPower, tt.price))
		})
	}
}

func TestBracketLegs(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	stop, tp := BracketLegs(p, 100, false)
	assert.InDelta(t, 95.0, stop, 1e-9)
	assert.InDelta(t, 110.0, tp, 1e-9)

	stop, tp = BracketLegs(p, 100, true)
	assert.InDelta(t, 105.0, stop, 1e-9)
	assert.InDelta(t, 90.0, tp, 1e-9)
}

func TestCheckEntry(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	d := CheckEntry(p, 100000, 100000, 50)
	assert.True(t, d.Allowed)
	assert.Equal(t, 120.0, d.Qty)
	assert.Equal(t, 6000.0, d.Cost)
	assert.Empty(t, d.Violations)

	d = CheckEntry(p, 100, 100, 50)
	assert.False(t, d.Allowed)
	assert.Equal(t, "QTY_TOO_SMALL", d.Violations[0].Code)

	d = CheckEntry(p, 100000, 100000, -1)
	assert.False(t, d.Allowed)
	assert.Equal(t, "BAD_PRICE", d.Violations[0].Code)
}
