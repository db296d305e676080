package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmoiron/sqlx"
)

// CustomerSource loads the customer records of one export.
type CustomerSource interface {
	LoadCustomers(ctx context.Context) ([]model.CustomerRecord, error)
}

// customerRow is the shape the configured query must return.
type customerRow struct {
	CustomerID sql.NullString `db:"customer_id"`
	Email      sql.NullString `db:"email"`
	CreatedAt  sql.NullTime   `db:"created_at"`
	CanceledAt sql.NullTime   `db:"canceled_at"`
}

func (r customerRow) record() model.CustomerRecord {
	rec := model.CustomerRecord{
		CustomerID: strings.TrimSpace(r.CustomerID.String),
		Email:      strings.TrimSpace(r.Email.String),
	}
	if r.CreatedAt.Valid {
		rec.CreatedAt = r.CreatedAt.Time.UTC()
	}
	if r.CanceledAt.Valid {
		rec.CanceledAt = r.CanceledAt.Time.UTC()
	}
	return rec
}

// SQLCustomerSource reads customers from MySQL or ClickHouse through sqlx.
type SQLCustomerSource struct {
	db    *sqlx.DB
	query string
}

func NewSQLCustomerSource(db *sqlx.DB, query string) *SQLCustomerSource {
	return &SQLCustomerSource{db: db, query: query}
}

var _ CustomerSource = (*SQLCustomerSource)(nil)

// LoadCustomers runs the query and keeps row order. A NULL customer_id comes
// back as an empty CustomerID; callers decide what to do with it.
func (s *SQLCustomerSource) LoadCustomers(ctx context.Context) ([]model.CustomerRecord, error) {
	rows, err := s.db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []model.CustomerRecord
	for rows.Next() {
		var r customerRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, r.record())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}
