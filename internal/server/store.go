package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/server/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

const connectTimeout = 15 * time.Second

// openPostgres builds a pgx pool from cfg and exposes it as *sql.DB so the
// repositories can stay on database/sql. The caller closes both.
func openPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse connection string: %w", err)
	}
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, pool, nil
}
