package ports

import (
	"context"
	"time"

	"gridbot/internal/domain"
)

// OpenOrder is the live view of an order currently open on the exchange, as
// returned by the open-orders endpoint.
type OpenOrder struct {
	OrderID int64            // Exchange's order ID
	Symbol  string           // Trading symbol
	Side    domain.OrderSide // Order side (BUY, SELL)
	Price   float64          // Limit price
	OrigQty float64          // Original quantity requested
}

// OrderResponse represents the essential details returned after placing an order.
type OrderResponse struct {
	OrderID       int64     // Exchange's order ID
	Symbol        string    // Symbol for the order
	ClientOrderID string    // User-defined order ID
	Price         float64   // Price of the order
	OrigQuantity  float64   // Original quantity requested
	Status        string    // Order status (e.g., NEW, FILLED, CANCELED)
	TimeInForce   string    // Time in force (e.g., GTC)
	Type          string    // Order type (e.g., LIMIT)
	Side          string    // Order side (BUY, SELL)
	Timestamp     time.Time // Time the order response was generated
}

// ExchangeClient defines the interface for interacting with the exchange.
// This abstraction decouples the reconciliation loop and pricing engine from
// the concrete Binance implementation.
type ExchangeClient interface {
	// SetServerTime synchronizes the client's time with the server's time.
	SetServerTime(ctx context.Context) error

	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetTickerPrice retrieves the last traded price for a given symbol.
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)

	// GetOpenOrders retrieves the orders currently open on the exchange for
	// the given symbol.
	GetOpenOrders(ctx context.Context, symbol string) ([]OpenOrder, error)

	// GetKlines retrieves the most recent klines/candlestick data for the
	// given symbol and interval.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)

	// PlaceLimitOrder places a good-till-cancelled limit order. Quantity and
	// price are pre-formatted to the symbol's precision.
	PlaceLimitOrder(ctx context.Context, symbol string, side domain.OrderSide, quantity string, price string) (*OrderResponse, error)
}
