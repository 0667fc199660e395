package indicators

import (
	"context"
	"fmt"

	"gridbot/internal/domain"
)

// MovingAverage computes a simple moving average over kline closes.
type MovingAverage struct {
	BaseIndicator
}

// NewMovingAverage creates a new simple moving average indicator instance.
func NewMovingAverage(config IndicatorConfig) *MovingAverage {
	return &MovingAverage{
		BaseIndicator: BaseIndicator{Config: config},
	}
}

// Name returns the name of the indicator
func (m *MovingAverage) Name() string {
	return "SMA"
}

// Calculate computes the arithmetic mean of the closing prices of the last
// Period klines. When fewer klines than the period are available the mean is
// taken over what exists; only an empty series is an error.
func (m *MovingAverage) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	if len(klines) == 0 {
		return 0, fmt.Errorf("no kline data to calculate SMA for period %d", m.Config.Period)
	}

	count := m.Config.Period
	if count <= 0 || count > len(klines) {
		count = len(klines)
	}

	total := 0.0
	for i := len(klines) - count; i < len(klines); i++ {
		total += klines[i].Close
	}
	return total / float64(count), nil
}
