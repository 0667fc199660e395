package ports

import "time"

// Renderer draws the per-cycle console view. Formatting only; nothing here
// participates in fill detection or pricing.
type Renderer interface {
	// BeginCycle is called once at the top of every poll cycle.
	BeginCycle()

	// SymbolStatus renders the one-line summary for a symbol. price is nil
	// when the ticker fetch failed this cycle.
	SymbolStatus(symbol string, price *float64, openOrders int, profitPercent float64, at time.Time)

	// OpenOrder renders one live open order beneath its symbol's status line.
	OpenOrder(order OpenOrder, volumePrecision int)
}
