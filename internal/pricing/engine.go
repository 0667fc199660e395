// Package pricing implements the opposite-order decision engine: given a
// filled order it computes the counter order's side, price and volume,
// applies the guard rails, and places the order on the exchange.
package pricing

import (
	"context"
	"fmt"
	"strconv"

	"gridbot/config"
	"gridbot/internal/domain"
	"gridbot/internal/indicators"
	"gridbot/internal/ports"
	"gridbot/internal/risk"
)

// Engine implements ports.FillHandler.
type Engine struct {
	exchange     ports.ExchangeClient
	logger       ports.Logger
	confirmer    ports.Confirmer
	feePercent   float64
	confirmOrder bool
}

// Config holds the engine's dependencies and global settings.
type Config struct {
	Exchange     ports.ExchangeClient
	Logger       ports.Logger
	Confirmer    ports.Confirmer // Required only when ConfirmOrder is true
	FeePercent   float64
	ConfirmOrder bool
}

// New creates a new pricing engine instance.
func New(cfg Config) (*Engine, error) {
	if cfg.Exchange == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("missing required dependencies for pricing engine")
	}
	if cfg.ConfirmOrder && cfg.Confirmer == nil {
		return nil, fmt.Errorf("confirmer is required when order confirmation is enabled")
	}
	if cfg.FeePercent < 0 {
		return nil, fmt.Errorf("fee percent cannot be negative")
	}
	return &Engine{
		exchange:     cfg.Exchange,
		logger:       cfg.Logger,
		confirmer:    cfg.Confirmer,
		feePercent:   cfg.FeePercent,
		confirmOrder: cfg.ConfirmOrder,
	}, nil
}

// HandleFill evaluates a fill event and either places the counter order or
// reports why it did not. Guard violations and placement failures never
// propagate as errors; the reconciliation cycle carries on regardless.
func (e *Engine) HandleFill(ctx context.Context, filled *domain.Order, symCfg config.SymbolConfig) domain.Decision {
	op := "HandleFill"
	fee := e.feePercent / 100
	profit := symCfg.ProfitPercent / 100
	limits := risk.Limits{PriceMin: symCfg.PriceMin, PriceMax: symCfg.PriceMax}

	var (
		side   domain.OrderSide
		volume float64
		price  float64
	)

	switch filled.Side {
	case domain.Buy:
		// We bought; place a SELL above the fill to take the spread.
		side = domain.Sell
		volume = symCfg.VolumeSell
		price = filled.Price*(1+profit) + filled.Price*volume*fee

		if err := limits.CheckSellPrice(price); err != nil {
			return e.skip(ctx, filled, side, price, volume, err.Error(), map[string]interface{}{
				"price":    price,
				"priceMin": symCfg.PriceMin,
			})
		}

	case domain.Sell:
		// We sold; place a BUY below the fill.
		side = domain.Buy
		volume = symCfg.VolumeBuy
		price = filled.Price*(1-profit) - filled.Price*volume*fee

		if err := limits.CheckBuyPrice(price); err != nil {
			return e.skip(ctx, filled, side, price, volume, err.Error(), map[string]interface{}{
				"price":    price,
				"priceMin": symCfg.PriceMin,
				"priceMax": symCfg.PriceMax,
			})
		}

		// Adaptive guard applies to BUY counter orders only.
		if symCfg.AdaptiveLimitPercent > 0 && symCfg.MovingAveragePeriodMin > 0 {
			movingAvg, err := e.movingAverage(ctx, filled.Symbol, symCfg.MovingAveragePeriodMin)
			if err != nil {
				e.logger.Error(ctx, err, op+": failed to get moving average, skipping placement", map[string]interface{}{
					"symbol": filled.Symbol,
					"period": symCfg.MovingAveragePeriodMin,
				})
				return domain.Decision{
					Outcome: domain.OutcomeSkipped,
					Side:    side,
					Price:   price,
					Volume:  volume,
					Reason:  "moving average unavailable",
				}
			}
			ceiling := risk.AdaptiveCeiling(movingAvg, symCfg.AdaptiveLimitPercent)
			if err := risk.CheckAdaptive(price, ceiling); err != nil {
				return e.skip(ctx, filled, side, price, volume, err.Error(), map[string]interface{}{
					"movingAverage": movingAvg,
					"adaptiveLimit": ceiling,
					"price":         price,
				})
			}
		}

	default:
		return e.skip(ctx, filled, filled.Side, filled.Price, filled.Volume, "unknown order side", map[string]interface{}{
			"side": filled.Side,
		})
	}

	// Bounds compare the unrounded price; the exchange gets the rounded one.
	priceStr := formatPrice(price, symCfg.PricePrecision)
	volumeStr := formatQuantity(volume, symCfg.VolumePrecision)

	decision := domain.Decision{
		Side:           side,
		Price:          price,
		FormattedPrice: priceStr,
		Volume:         volume,
	}

	e.logger.Info(ctx, op+": ready to place counter order", map[string]interface{}{
		"symbol": filled.Symbol,
		"side":   side,
		"volume": volumeStr,
		"price":  priceStr,
	})

	if e.confirmOrder {
		confirmed, err := e.confirmer.Confirm(ctx, "Confirm order? [y/N]: ")
		if err != nil {
			e.logger.Error(ctx, err, op+": confirmation failed, order cancelled", map[string]interface{}{"symbol": filled.Symbol})
			decision.Outcome = domain.OutcomeCancelled
			return decision
		}
		if !confirmed {
			e.logger.Info(ctx, op+": order cancelled by user", map[string]interface{}{"symbol": filled.Symbol})
			decision.Outcome = domain.OutcomeCancelled
			return decision
		}
	}

	resp, err := e.exchange.PlaceLimitOrder(ctx, filled.Symbol, side, volumeStr, priceStr)
	if err != nil {
		// The ledger's fill mark is not rolled back on placement failure; the
		// row stays FILLED with no counter order on the book.
		e.logger.Error(ctx, err, op+": failed to place counter order", map[string]interface{}{
			"symbol": filled.Symbol,
			"side":   side,
			"volume": volumeStr,
			"price":  priceStr,
		})
		decision.Outcome = domain.OutcomePlacementFailed
		return decision
	}

	e.logger.Info(ctx, op+": counter order placed", map[string]interface{}{
		"symbol":  filled.Symbol,
		"side":    side,
		"volume":  volumeStr,
		"price":   priceStr,
		"orderID": resp.OrderID,
	})
	decision.Outcome = domain.OutcomePlaced
	return decision
}

// skip logs a guard violation as an informational event and returns the
// terminal SKIPPED decision.
func (e *Engine) skip(ctx context.Context, filled *domain.Order, side domain.OrderSide, price, volume float64, reason string, fields map[string]interface{}) domain.Decision {
	fields["symbol"] = filled.Symbol
	fields["side"] = side
	e.logger.Info(ctx, "HandleFill: skipped: "+reason, fields)
	return domain.Decision{
		Outcome: domain.OutcomeSkipped,
		Side:    side,
		Price:   price,
		Volume:  volume,
		Reason:  reason,
	}
}

// movingAverage fetches the last periodMinutes one-minute candles and returns
// the mean of their closes. Recomputed on every call; prices move between
// cycles.
func (e *Engine) movingAverage(ctx context.Context, symbol string, periodMinutes int) (float64, error) {
	klines, err := e.exchange.GetKlines(ctx, symbol, "1m", periodMinutes)
	if err != nil {
		return 0, err
	}
	if len(klines) == 0 {
		return 0, fmt.Errorf("%w for symbol %s", ports.ErrNoKlineData, symbol)
	}
	sma := indicators.NewMovingAverage(indicators.IndicatorConfig{Period: periodMinutes})
	return sma.Calculate(ctx, klines)
}

// formatPrice formats a price to the symbol's configured decimal precision.
func formatPrice(price float64, precision int) string {
	return strconv.FormatFloat(price, 'f', precision, 64)
}

// formatQuantity formats a quantity to the symbol's configured precision.
func formatQuantity(quantity float64, precision int) string {
	return strconv.FormatFloat(quantity, 'f', precision, 64)
}
