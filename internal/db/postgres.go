package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for the audit log: inserts are short and fire after the
// scheduling state has already changed, so idle connections are not kept.
const (
	auditMaxConns        = 4
	auditMaxConnIdleTime = time.Minute
	auditHealthCheck     = time.Minute
	auditPingTimeout     = 5 * time.Second
)

// ConnectPostgres opens the pool used by EventLog and the readiness probe.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	tuneAuditPool(cfg)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, auditPingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

func tuneAuditPool(cfg *pgxpool.Config) {
	cfg.MaxConns = auditMaxConns
	cfg.MinConns = 0
	cfg.MaxConnIdleTime = auditMaxConnIdleTime
	cfg.HealthCheckPeriod = auditHealthCheck
}
