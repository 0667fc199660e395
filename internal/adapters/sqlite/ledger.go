package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridbot/internal/domain"
	"gridbot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Ledger implements the ports.OrderLedger interface using SQLite. One row per
// exchange order id; rows are never deleted.
type Ledger struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite ledger.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewLedger creates a new SQLite ledger instance.
func NewLedger(cfg Config) (*Ledger, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite ledger")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/orders.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	// The loop is single-threaded; one connection keeps SQLite happy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	ledger := &Ledger{db: db, logger: cfg.Logger}

	if err := ledger.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	return ledger, nil
}

// initializeSchema creates the orders table if it doesn't exist.
func (l *Ledger) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		volume REAL NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_symbol_status ON orders (symbol, status);
	`
	_, err := l.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	if l.db != nil {
		l.logger.Info(context.Background(), "Closing SQLite database connection")
		return l.db.Close()
	}
	return nil
}

// Upsert records every live open order. An existing row only has its status
// refreshed to OPEN; price, volume and created_at stay as first observed.
func (l *Ledger) Upsert(ctx context.Context, live []ports.OpenOrder) error {
	const query = `
	INSERT INTO orders (order_id, symbol, side, price, volume, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(order_id) DO UPDATE SET status = excluded.status`

	now := time.Now().UTC()
	for _, o := range live {
		_, err := l.db.ExecContext(ctx, query,
			o.OrderID, o.Symbol, string(o.Side), o.Price, o.OrigQty, string(domain.StatusOpen), now)
		if err != nil {
			return fmt.Errorf("failed to upsert order %d for symbol %s: %w", o.OrderID, o.Symbol, err)
		}
	}
	return nil
}

// ListOpen retrieves all OPEN rows for the given symbols, oldest first.
func (l *Ledger) ListOpen(ctx context.Context, symbols []string) ([]*domain.Order, error) {
	if len(symbols) == 0 {
		return []*domain.Order{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	query := fmt.Sprintf(`
	SELECT order_id, symbol, side, price, volume, status, created_at
	FROM orders
	WHERE status = ? AND symbol IN (%s)
	ORDER BY created_at, order_id`, placeholders)

	args := make([]interface{}, 0, len(symbols)+1)
	args = append(args, string(domain.StatusOpen))
	for _, s := range symbols {
		args = append(args, s)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order during ListOpen: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// MarkFilled sets status FILLED for the given order id. Zero rows affected
// means the id was never recorded, which is not an error.
func (l *Ledger) MarkFilled(ctx context.Context, orderID int64) error {
	const query = `UPDATE orders SET status = ? WHERE order_id = ?`

	result, err := l.db.ExecContext(ctx, query, string(domain.StatusFilled), orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order %d filled: %w", orderID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		l.logger.Debug(ctx, "MarkFilled for unknown order id", map[string]interface{}{"orderID": orderID})
	}
	return nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanOrder scans a row into a domain.Order struct.
func scanOrder(s scanner) (*domain.Order, error) {
	o := &domain.Order{}
	var side, status string
	err := s.Scan(&o.OrderID, &o.Symbol, &side, &o.Price, &o.Volume, &status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Side = domain.OrderSide(side)
	o.Status = domain.OrderStatus(status)
	return o, nil
}
