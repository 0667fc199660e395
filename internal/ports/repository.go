package ports

import (
	"context"

	"gridbot/internal/domain"
)

// OrderLedger defines the interface for the durable record of orders the bot
// has observed on the exchange. The reconciliation loop is the sole caller of
// the status mutation.
type OrderLedger interface {
	// Upsert records every live open order: an existing row is refreshed to
	// OPEN (other fields untouched), an unknown id is inserted as a new OPEN
	// row. Rows not present in live are left alone; fill detection is a
	// separate step, not derived from absence here.
	Upsert(ctx context.Context, live []OpenOrder) error

	// ListOpen retrieves all rows with status OPEN whose symbol is in the
	// given set.
	ListOpen(ctx context.Context, symbols []string) ([]*domain.Order, error)

	// MarkFilled sets status FILLED for the row with the given id. Unknown
	// ids are a no-op, not an error.
	MarkFilled(ctx context.Context, orderID int64) error
}
