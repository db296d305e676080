package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewMySQLConnection opens a *sqlx.DB whose DATETIME columns scan into time.Time (UTC).
func NewMySQLConnection(ctx context.Context, dsn string, opts SQLOpts) (*sqlx.DB, error) {
	dsn, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}
	return open(ctx, "mysql", dsn, opts)
}

// mysqlDSN forces parseTime and a UTC location so sql.NullTime scanning works.
func mysqlDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("empty MySQL DSN")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
