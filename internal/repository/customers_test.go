package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCustomerRow_Record(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	created := time.Date(2023, 1, 31, 22, 0, 0, 0, loc)

	got := customerRow{
		CustomerID: sql.NullString{String: " cus_1 ", Valid: true},
		Email:      sql.NullString{String: "a@example.com", Valid: true},
		CreatedAt:  sql.NullTime{Time: created, Valid: true},
	}.record()

	assert.Equal(t, "cus_1", got.CustomerID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.Equal(t, model.MonthKey{Year: 2023, Month: time.February}, model.MonthOf(got.CreatedAt))
	assert.True(t, got.CanceledAt.IsZero())
}

func TestCustomerRow_RecordNulls(t *testing.T) {
	got := customerRow{}.record()
	assert.Equal(t, model.CustomerRecord{}, got)
	_, ok := got.CreatedMonth()
	assert.False(t, ok)
}
