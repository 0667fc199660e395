package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridbot/config"
	"gridbot/internal/ports"
)

// TradingService drives the bot: one synchronous pass over all active symbols
// per cycle, then sleep. Fill detection is the diff between the ledger's OPEN
// rows and the exchange's live open-order list.
type TradingService struct {
	cfg      *config.Config
	logger   ports.Logger
	exchange ports.ExchangeClient
	ledger   ports.OrderLedger
	fills    ports.FillHandler
	renderer ports.Renderer

	// Fixed iteration order for every cycle.
	activeSymbols []string
}

// NewTradingService creates a new application service instance.
func NewTradingService(
	cfg *config.Config,
	logger ports.Logger,
	exchange ports.ExchangeClient,
	ledger ports.OrderLedger,
	fills ports.FillHandler,
	renderer ports.Renderer,
) (*TradingService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || exchange == nil || ledger == nil || fills == nil || renderer == nil {
		return nil, fmt.Errorf("missing required dependencies for TradingService")
	}

	activeSymbols := cfg.ActiveSymbols()
	if len(activeSymbols) == 0 {
		return nil, fmt.Errorf("no active symbols configured")
	}

	return &TradingService{
		cfg:           cfg,
		logger:        logger,
		exchange:      exchange,
		ledger:        ledger,
		fills:         fills,
		renderer:      renderer,
		activeSymbols: activeSymbols,
	}, nil
}

// Start begins the polling loop and blocks until the context is cancelled, a
// shutdown signal arrives, or the persistence layer fails.
func (s *TradingService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Trading Service...", map[string]interface{}{
		"symbols":      s.activeSymbols,
		"pollInterval": s.cfg.Global.PollIntervalSec,
	})

	// Create a context that can be canceled by signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	// Synchronize time with the exchange before signing any requests.
	if err := s.exchange.SetServerTime(ctx); err != nil {
		s.logger.Error(ctx, err, "Failed to synchronize server time")
		return fmt.Errorf("failed to set server time: %w", err)
	}
	s.logger.Info(ctx, "Server time synchronized")

	pollInterval := time.Duration(s.cfg.Global.PollIntervalSec) * time.Second
	for {
		if err := s.runOnce(ctx); err != nil {
			// Ledger errors are not absorbed; running blind against the
			// persisted state risks duplicate counter orders.
			s.logger.Error(ctx, err, "Poll cycle failed")
			return err
		}

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Trading Service stopped.")
			return nil
		case <-time.After(pollInterval):
		}
	}
}

// runOnce executes a single poll cycle over all active symbols.
func (s *TradingService) runOnce(ctx context.Context) error {
	s.renderer.BeginCycle()
	for _, symbol := range s.activeSymbols {
		if err := s.runCycle(ctx, symbol, s.cfg.Symbols[symbol]); err != nil {
			return err
		}
	}
	return nil
}

// runCycle reconciles one symbol: refresh the ledger from the live open-order
// list, treat every locally OPEN order missing from it as filled, and hand
// each fill to the pricing engine. Gateway errors degrade gracefully; ledger
// errors propagate.
func (s *TradingService) runCycle(ctx context.Context, symbol string, symCfg config.SymbolConfig) error {
	var pricePtr *float64
	price, err := s.exchange.GetTickerPrice(ctx, symbol)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to fetch price, continuing cycle", map[string]interface{}{"symbol": symbol})
	} else {
		pricePtr = &price
	}

	liveOrders, err := s.exchange.GetOpenOrders(ctx, symbol)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to fetch open orders, treating as empty", map[string]interface{}{"symbol": symbol})
		liveOrders = nil
	}

	if err := s.ledger.Upsert(ctx, liveOrders); err != nil {
		return fmt.Errorf("ledger upsert for %s: %w", symbol, err)
	}

	locallyOpen, err := s.ledger.ListOpen(ctx, []string{symbol})
	if err != nil {
		return fmt.Errorf("ledger list open for %s: %w", symbol, err)
	}

	liveIDs := make(map[int64]struct{}, len(liveOrders))
	for _, o := range liveOrders {
		liveIDs[o.OrderID] = struct{}{}
	}

	for _, order := range locallyOpen {
		if _, stillOpen := liveIDs[order.OrderID]; stillOpen {
			continue
		}
		// Gone from the live list while locally OPEN: treated as a fill.
		// Cancelled or expired orders are indistinguishable here.
		s.logger.Info(ctx, "Order executed", map[string]interface{}{
			"symbol":  symbol,
			"side":    order.Side,
			"volume":  order.Volume,
			"price":   order.Price,
			"orderID": order.OrderID,
		})

		decision := s.fills.HandleFill(ctx, order, symCfg)
		s.logger.Debug(ctx, "Fill decision", map[string]interface{}{
			"symbol":  symbol,
			"orderID": order.OrderID,
			"outcome": decision.Outcome,
			"reason":  decision.Reason,
		})

		// The fill mark is not conditional on the decision outcome.
		if err := s.ledger.MarkFilled(ctx, order.OrderID); err != nil {
			return fmt.Errorf("ledger mark filled for order %d: %w", order.OrderID, err)
		}
	}

	s.renderer.SymbolStatus(symbol, pricePtr, len(liveOrders), symCfg.ProfitPercent, time.Now())
	for _, o := range liveOrders {
		s.renderer.OpenOrder(o, symCfg.VolumePrecision)
	}

	return nil
}
