package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput     = errors.New("input has no header row")
	ErrMissingColumns = errors.New("missing required columns")
	ErrMalformed      = errors.New("malformed csv")
)

// Schema names the export columns the analysis reads.
type Schema struct {
	CustomerID string
	Email      string
	CreatedAt  string
	CanceledAt string
}

// DefaultSchema matches a Stripe customer export.
func DefaultSchema() Schema {
	return Schema{
		CustomerID: "Customer ID",
		Email:      "Customer Email",
		CreatedAt:  "Created (UTC)",
		CanceledAt: "Canceled At (UTC)",
	}
}

// Columns lists the required column names in schema order.
func (s Schema) Columns() []string {
	return []string{s.CustomerID, s.Email, s.CreatedAt, s.CanceledAt}
}

// MissingColumnsError lists every required column absent from the header.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// columnIndex maps schema fields to header positions.
type columnIndex struct {
	id, email, created, canceled int
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func (s Schema) resolve(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		k := normalizeHeader(h)
		if _, dup := pos[k]; !dup {
			pos[k] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		id:       lookup(s.CustomerID),
		email:    lookup(s.Email),
		created:  lookup(s.CreatedAt),
		canceled: lookup(s.CanceledAt),
	}
	if len(missing) > 0 {
		return columnIndex{}, &MissingColumnsError{Missing: missing}
	}
	return idx, nil
}
