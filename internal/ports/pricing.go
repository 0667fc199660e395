package ports

import (
	"context"

	"gridbot/config"
	"gridbot/internal/domain"
)

// FillHandler decides and places the counter order for a fill event.
type FillHandler interface {
	// HandleFill evaluates the filled order against the symbol configuration
	// and either places the opposite-side order or reports why it did not.
	// Gateway failures during placement are absorbed into the decision; the
	// caller's cycle never fails because of them.
	HandleFill(ctx context.Context, filled *domain.Order, symCfg config.SymbolConfig) domain.Decision
}

// Confirmer asks the operator to approve an order before it is sent. It is an
// injected capability so the pricing engine stays testable without a terminal.
type Confirmer interface {
	// Confirm blocks until the operator answers the prompt. A read error is
	// reported to the caller, which treats it as a decline.
	Confirm(ctx context.Context, prompt string) (bool, error)
}
