package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CheckHealth pings the database and verifies the pool still has open
// connections available.
func (c *Client) CheckHealth(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("postgres database connection is nil")
	}

	sqlDB, err := c.SqlDB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(checkCtx); err != nil {
		return fmt.Errorf("postgres health check failed: %w", err)
	}

	stats := sqlDB.Stats()
	if stats.OpenConnections == 0 && stats.MaxOpenConnections > 0 {
		return fmt.Errorf("no open connections available")
	}

	return nil
}

// Stats returns database connection pool statistics.
func (c *Client) Stats() (sql.DBStats, error) {
	if c.db == nil {
		return sql.DBStats{}, fmt.Errorf("postgres client is nil")
	}

	sqlDB, err := c.SqlDB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return sqlDB.Stats(), nil
}
