// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/linkboard/api/internal/platform/config"
)

// Client wraps sqlx.DB and provides connection pooling, health checks, and transaction management
type Client struct {
	db     *sqlx.DB
	driver string
}

// NewClient opens a client for the driver selected in cfg
func NewClient(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresClient(ctx, cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLiteClient(ctx, cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresClient creates a new PostgreSQL client wrapper
func NewPostgresClient(ctx context.Context, cfg config.PostgreSQLConfig) (*Client, error) {
	db, err := sqlx.ConnectContext(ctx, config.DriverPostgres, buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Client{db: db, driver: config.DriverPostgres}, nil
}

// NewSQLiteClient opens a SQLite database file.
// Foreign keys are enforced and every transaction begins IMMEDIATE, so writers
// serialize on the database lock instead of failing at commit time.
func NewSQLiteClient(ctx context.Context, cfg config.SQLiteConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_txlock=immediate&_journal_mode=WAL",
		cfg.Path, busy.Milliseconds())

	db, err := sqlx.ConnectContext(ctx, config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return &Client{db: db, driver: config.DriverSQLite}, nil
}

// buildConnectionString builds PostgreSQL connection string from config
func buildConnectionString(cfg config.PostgreSQLConfig) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", cfg.Host))
	parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Database))

	if cfg.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.Username))
	}

	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode))

	if cfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", cfg.ConnectTimeout))
	}

	return strings.Join(parts, " ")
}

// DB returns the underlying *sqlx.DB connection
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Driver returns the driver name the client was opened with
func (c *Client) Driver() string {
	return c.driver
}

// Rebind converts a query written with '?' placeholders to the driver's bindvar style
func (c *Client) Rebind(query string) string {
	return c.db.Rebind(query)
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available
func (c *Client) SupportsRowLocks() bool {
	return c.driver == config.DriverPostgres
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// HealthCheck performs a health check on the database connection
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Executor returns the transaction carried by ctx, or the pool when there is none
func (c *Client) Executor(ctx context.Context) sqlx.ExtContext {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return c.db
}

// WithTransaction runs fn inside a database transaction.
// The transaction is carried in the context passed to fn, and repositories built on
// this client pick it up through Executor. A context that already carries a
// transaction joins it instead of starting a new one.
func (c *Client) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := c.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
