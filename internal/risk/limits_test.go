package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimits_CheckSellPrice(t *testing.T) {
	limits := Limits{PriceMin: 100, PriceMax: 200}

	assert.NoError(t, limits.CheckSellPrice(100))
	assert.NoError(t, limits.CheckSellPrice(150))
	assert.ErrorIs(t, limits.CheckSellPrice(99.99), ErrBelowMinPrice)

	// Sells are never capped, even above PriceMax.
	assert.NoError(t, limits.CheckSellPrice(250))
}

func TestLimits_CheckBuyPrice(t *testing.T) {
	limits := Limits{PriceMin: 100, PriceMax: 200}

	assert.NoError(t, limits.CheckBuyPrice(100))
	assert.NoError(t, limits.CheckBuyPrice(200))
	assert.ErrorIs(t, limits.CheckBuyPrice(99.99), ErrBelowMinPrice)
	assert.ErrorIs(t, limits.CheckBuyPrice(200.01), ErrAboveMaxPrice)
}

func TestLimits_CheckBuyPrice_NoUpperBound(t *testing.T) {
	limits := Limits{PriceMin: 100}

	assert.NoError(t, limits.CheckBuyPrice(1e9))
	assert.ErrorIs(t, limits.CheckBuyPrice(50), ErrBelowMinPrice)
}

func TestAdaptiveCeiling(t *testing.T) {
	assert.InDelta(t, 102.0, AdaptiveCeiling(100, 2), 1e-9)
	assert.InDelta(t, 100.0, AdaptiveCeiling(100, 0), 1e-9)
	assert.InDelta(t, 97.0, AdaptiveCeiling(100, -3), 1e-9)
}

func TestCheckAdaptive(t *testing.T) {
	assert.NoError(t, CheckAdaptive(101.9, 102))
	assert.NoError(t, CheckAdaptive(102, 102))
	assert.ErrorIs(t, CheckAdaptive(102.01, 102), ErrAboveAdaptive)
}
