package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridbot/internal/domain"
	"gridbot/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestLedger creates a temporary database for testing
func setupTestLedger(t *testing.T) (*Ledger, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gridbot-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	ledger, err := NewLedger(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		ledger.Close()
		os.RemoveAll(tmpDir)
	}

	return ledger, cleanup
}

func liveOrder(id int64, symbol string, side domain.OrderSide, price, qty float64) ports.OpenOrder {
	return ports.OpenOrder{OrderID: id, Symbol: symbol, Side: side, Price: price, OrigQty: qty}
}

func TestLedger_UpsertInsertsOpenRows(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	live := []ports.OpenOrder{
		liveOrder(101, "BTCUSDT", domain.Buy, 50000, 0.5),
		liveOrder(102, "BTCUSDT", domain.Sell, 52000, 0.5),
	}
	require.NoError(t, ledger.Upsert(ctx, live))

	orders, err := ledger.ListOpen(ctx, []string{"BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byID := map[int64]*domain.Order{}
	for _, o := range orders {
		byID[o.OrderID] = o
	}
	require.Contains(t, byID, int64(101))
	assert.Equal(t, "BTCUSDT", byID[101].Symbol)
	assert.Equal(t, domain.Buy, byID[101].Side)
	assert.Equal(t, 50000.0, byID[101].Price)
	assert.Equal(t, 0.5, byID[101].Volume)
	assert.Equal(t, domain.StatusOpen, byID[101].Status)
	assert.False(t, byID[101].CreatedAt.IsZero())
}

func TestLedger_UpsertRefreshesExistingRow(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{liveOrder(201, "ETHUSDT", domain.Buy, 2000, 1)}))

	first, err := ledger.ListOpen(ctx, []string{"ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	createdAt := first[0].CreatedAt

	require.NoError(t, ledger.MarkFilled(ctx, 201))

	// Re-observation of the same id resets the row to OPEN; price, volume
	// and created_at stay as first observed.
	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{liveOrder(201, "ETHUSDT", domain.Buy, 9999, 7)}))

	after, err := ledger.ListOpen(ctx, []string{"ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, domain.StatusOpen, after[0].Status)
	assert.Equal(t, 2000.0, after[0].Price)
	assert.Equal(t, 1.0, after[0].Volume)
	assert.True(t, createdAt.Equal(after[0].CreatedAt))
}

func TestLedger_UpsertLeavesAbsentRowsUntouched(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{
		liveOrder(301, "BTCUSDT", domain.Buy, 50000, 0.5),
		liveOrder(302, "BTCUSDT", domain.Sell, 52000, 0.5),
	}))

	// Next cycle only sees order 302; 301 must stay OPEN until the
	// reconciliation loop marks it filled.
	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{
		liveOrder(302, "BTCUSDT", domain.Sell, 52000, 0.5),
	}))

	orders, err := ledger.ListOpen(ctx, []string{"BTCUSDT"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestLedger_ListOpenFiltersSymbolAndStatus(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{
		liveOrder(401, "BTCUSDT", domain.Buy, 50000, 0.5),
		liveOrder(402, "ETHUSDT", domain.Buy, 2000, 1),
		liveOrder(403, "XRPUSDT", domain.Sell, 0.5, 100),
	}))
	require.NoError(t, ledger.MarkFilled(ctx, 401))

	orders, err := ledger.ListOpen(ctx, []string{"BTCUSDT", "ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(402), orders[0].OrderID)

	none, err := ledger.ListOpen(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedger_MarkFilled(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{liveOrder(501, "BTCUSDT", domain.Sell, 52000, 0.5)}))

	require.NoError(t, ledger.MarkFilled(ctx, 501))
	orders, err := ledger.ListOpen(ctx, []string{"BTCUSDT"})
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Idempotent on a second call, no-op for unknown ids.
	assert.NoError(t, ledger.MarkFilled(ctx, 501))
	assert.NoError(t, ledger.MarkFilled(ctx, 999999))
}

func TestLedger_SurvivesReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "gridbot-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)
	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	ledger, err := NewLedger(Config{DBPath: dbPath, Logger: &mockLogger{}})
	require.NoError(t, err)
	require.NoError(t, ledger.Upsert(ctx, []ports.OpenOrder{liveOrder(601, "BTCUSDT", domain.Buy, 48000, 0.1)}))
	require.NoError(t, ledger.Close())

	// Reconciliation after restart depends on previously observed OPEN rows.
	reopened, err := NewLedger(Config{DBPath: dbPath, Logger: &mockLogger{}})
	require.NoError(t, err)
	defer reopened.Close()

	orders, err := reopened.ListOpen(ctx, []string{"BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(601), orders[0].OrderID)
	assert.Equal(t, domain.StatusOpen, orders[0].Status)
}
