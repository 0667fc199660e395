package domain

import "time"

// Order is a ledger row mirroring an order previously observed on the
// exchange. The exchange-assigned id is the primary key and never changes.
type Order struct {
	OrderID   int64       // Exchange-assigned order id
	Symbol    string      // Trading symbol (e.g., "BTCUSDT")
	Side      OrderSide   // Side the order was placed with
	Price     float64     // Limit price of the order
	Volume    float64     // Original quantity of the order
	Status    OrderStatus // Current local status (OPEN, FILLED)
	CreatedAt time.Time   // First time this order was observed; set once
}

// IsOpen reports whether the ledger still considers the order open.
func (o *Order) IsOpen() bool {
	return o.Status == StatusOpen
}
