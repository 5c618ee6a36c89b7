// Package postgres provides the PostgreSQL-backed table client: pooled
// connections, on-demand table reflection, directive-based reads, and
// convenience write/DDL operations. SQL planning, execution and transaction
// semantics stay with the engine; this package only composes parameterized
// statements and materializes results.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asaidimu/go-events"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrTableNotFound indicates that a referenced table does not exist in the
// configured schema.
var ErrTableNotFound = errors.New("table not found")

// Client is a thin data-access helper bound to one database and one schema.
// Every operation is connection-scoped: reads acquire a pooled connection for
// the duration of the call, writes run inside their own transaction, and both
// release their resources on every exit path.
type Client struct {
	pool   *pgxpool.Pool
	cfg    *Config
	logger *zap.Logger

	bus           *events.TypedEventBus[OperationEvent]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

// Connect opens a connection pool using the provided configuration and
// verifies the database is reachable. The configuration must already be
// validated; a nil logger disables logging.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	bus, err := events.NewTypedEventBus[OperationEvent](events.DefaultConfig())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	logger.Debug("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.String("schema", cfg.Schema))

	return &Client{
		pool:          pool,
		cfg:           cfg,
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks database availability.
func (c *Client) Ping(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("client not connected")
	}
	return c.pool.Ping(ctx)
}

// SchemaName returns the schema this client operates in.
func (c *Client) SchemaName() string {
	return c.cfg.Schema
}

// Pool exposes the underlying pool for operations this package does not wrap.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Exec runs a single SQL command on a pooled connection.
func (c *Client) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}
