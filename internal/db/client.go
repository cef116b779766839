package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// NewDb opens the connection pool for dsn. With logSQL every statement is
// logged at debug level through logger.
func NewDb(ctx context.Context, dsn string, logger *zap.Logger, logSQL bool) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	if logSQL && logger != nil {
		cfg.ConnConfig.Logger = zapadapter.NewLogger(logger.Named("pgx"))
		cfg.ConnConfig.LogLevel = pgx.LogLevelDebug
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewDatabase(pool), nil
}
