// Package risk holds the price guard rails applied to counter orders before
// placement. Violations are normal control flow for the caller, not faults.
package risk

import "errors"

// Guard rail violations. The pricing engine logs these as informational
// skips.
var (
	ErrBelowMinPrice = errors.New("price below configured minimum")
	ErrAboveMaxPrice = errors.New("price above configured maximum")
	ErrAboveAdaptive = errors.New("price above adaptive limit")
)

// Limits holds the per-symbol price bounds a counter order must respect.
// Comparisons always use the unrounded computed price.
type Limits struct {
	PriceMin float64
	PriceMax float64 // 0 means no upper bound configured
}

// CheckSellPrice validates a computed SELL price. Sells only have a lower
// bound; there is no upper-bound check on the sell side.
func (l Limits) CheckSellPrice(price float64) error {
	if price < l.PriceMin {
		return ErrBelowMinPrice
	}
	return nil
}

// CheckBuyPrice validates a computed BUY price against both bounds.
func (l Limits) CheckBuyPrice(price float64) error {
	if price < l.PriceMin {
		return ErrBelowMinPrice
	}
	if l.PriceMax > 0 && price > l.PriceMax {
		return ErrAboveMaxPrice
	}
	return nil
}

// AdaptiveCeiling returns the trend-adjusted buy ceiling: the moving average
// raised by limitPercent.
func AdaptiveCeiling(movingAverage, limitPercent float64) float64 {
	return movingAverage * (1 + limitPercent/100)
}

// CheckAdaptive validates a computed BUY price against the adaptive ceiling.
func CheckAdaptive(price, ceiling float64) error {
	if price > ceiling {
		return ErrAboveAdaptive
	}
	return nil
}
