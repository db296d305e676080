package db

import (
	"context"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
)

// NewClickHouseConnection opens a *sqlx.DB on the clickhouse std driver,
// e.g. clickhouse://default:@localhost:9000/billing?dial_timeout=5s
func NewClickHouseConnection(ctx context.Context, dsn string, opts SQLOpts) (*sqlx.DB, error) {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 3 * time.Second
	}
	return open(ctx, "clickhouse", dsn, opts)
}
