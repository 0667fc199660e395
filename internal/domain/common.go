package domain

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// Opposite returns the counter side for a filled order.
func (s OrderSide) Opposite() OrderSide {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderStatus represents the local lifecycle state of a ledger order.
// Transitions are monotonic OPEN -> FILLED within a bot run.
type OrderStatus string

const (
	StatusOpen   OrderStatus = "OPEN"
	StatusFilled OrderStatus = "FILLED"
)

// OrderType represents the exchange order type used for placement.
type OrderType string

const (
	OrderTypeLimit OrderType = "LIMIT"
)

// TimeInForce represents how long an order remains active on the exchange.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
)
