// Package ingest reads subscription exports into customer records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmehdipour/churnctl/internal/model"
)

// ReadCSV parses a subscription export. The header is validated against
// schema before any row is read. Unparseable timestamps are treated as
// missing and counted in the returned stats; rows with a blank customer ID
// are skipped.
func ReadCSV(r io.Reader, schema Schema) ([]model.CustomerRecord, model.IngestStats, error) {
	var stats model.IngestStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, ErrEmptyInput
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w: %w", ErrMalformed, err)
	}

	idx, err := schema.resolve(header)
	if err != nil {
		return nil, stats, err
	}

	field := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []model.CustomerRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w: %w", stats.Rows+2, ErrMalformed, err)
		}
		stats.Rows++

		rec := model.CustomerRecord{
			CustomerID: field(row, idx.id),
			Email:      field(row, idx.email),
		}
		if rec.CustomerID == "" {
			stats.MissingID++
			continue
		}
		if t, ok := ParseTimestamp(field(row, idx.created)); ok {
			rec.CreatedAt = t
		} else {
			stats.InvalidCreated++
		}
		raw := field(row, idx.canceled)
		if t, ok := ParseTimestamp(raw); ok {
			rec.CanceledAt = t
		} else if !isNull(raw) {
			stats.InvalidCanceled++
		}
		out = append(out, rec)
	}
	return out, stats, nil
}
