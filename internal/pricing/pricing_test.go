package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricePercentMode(t *testing.T) {
	// 100 INR per 1000 units, 500 units, 40% markup -> 70.00
	got := Price(100, 500, 40, ModePercent)
	assert.InDelta(t, 70.0, got, 1e-9)
}

func TestPriceFactorMatchesPercent(t *testing.T) {
	// factor 1.4 and percent 40 are the same markup
	p := Price(250, 1200, 40, ModePercent)
	f := Price(250, 1200, 1.4, ModeFactor)
	assert.InDelta(t, p, f, 1e-9)
}

func TestPriceZeroQuantity(t *testing.T) {
	assert.Zero(t, Price(100, 0, 40, ModePercent))
	assert.Zero(t, Cost(100, 0))
}

func TestPriceMonotonicInQuantity(t *testing.T) {
	prev := 0.0
	for _, qty := range []int{10, 100, 1000, 5000} {
		got := Price(85, qty, 40, ModePercent)
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestCostExcludesMargin(t *testing.T) {
	cost := Cost(100, 500)
	price := Price(100, 500, 40, ModePercent)
	assert.InDelta(t, 50.0, cost, 1e-9)
	assert.Less(t, cost, price)
}

func TestBelowMinimum(t *testing.T) {
	assert.True(t, BelowMinimum(0.4))
	assert.True(t, BelowMinimum(0.999))
	assert.False(t, BelowMinimum(1.0))
	assert.False(t, BelowMinimum(70))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹70.00", FormatINR(70))
	assert.Equal(t, "₹0.35", FormatINR(0.345+0.005))
	assert.Equal(t, "₹1234.57", FormatINR(1234.567))
}
