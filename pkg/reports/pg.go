package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// PGStore persists reports in PostgreSQL. Payloads live in JSONB columns
// next to the summary fields used by listings.
type PGStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPGStore connects to databaseURL, verifies the connection, and runs
// migrations.
func NewPGStore(ctx context.Context, databaseURL string, logger logging.Logger) (*PGStore, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool, logger: logger}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("report store ready", logging.String("backend", "postgres"))
	return s, nil
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
