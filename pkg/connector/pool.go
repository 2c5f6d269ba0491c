// pkg/connector/pool.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retaildc/ingress/pkg/config"
)

// PoolStats holds the pool gauges database/sql actually reports at runtime.
// Idle and lifetime limits are configuration inputs, not observations, so
// they are logged once at connect time from the role's configuration.
type PoolStats struct {
	Open    int
	InUse   int
	Idle    int
	MaxOpen int
}

// poolStatsFrom reduces driver statistics to the reportable gauges.
func poolStatsFrom(s sql.DBStats) PoolStats {
	return PoolStats{
		Open:    s.OpenConnections,
		InUse:   s.InUse,
		Idle:    s.Idle,
		MaxOpen: s.MaxOpenConnections,
	}
}

// applyPoolSettings configures the connection pool from a role's Postgres
// configuration. Non-positive values keep the driver defaults.
func applyPoolSettings(db *sql.DB, cfg *config.PostgresConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// pingWithTimeout verifies connection liveness within a bounded wait.
func pingWithTimeout(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping failed within %v: %w", timeout, err)
	}
	return nil
}
