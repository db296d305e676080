package cohort

import (
	"testing"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCanceledCustomers_FirstOccurrenceWins(t *testing.T) {
	records := []model.CustomerRecord{
		{CustomerID: "C1", Email: "first@example.com", CreatedAt: ts(2023, time.January, 1), CanceledAt: ts(2023, time.May, 1)},
		{CustomerID: "C1", Email: "second@example.com", CreatedAt: ts(2023, time.January, 1), CanceledAt: ts(2023, time.May, 1)},
	}

	got := CanceledCustomers(records)
	assert.Equal(t, []model.CanceledCustomer{
		{Email: "first@example.com", CanceledAt: ts(2023, time.May, 1)},
	}, got)
}

func TestCanceledCustomers_SortedAndDistinct(t *testing.T) {
	records := []model.CustomerRecord{
		{CustomerID: "1", Email: "late@example.com", CanceledAt: ts(2023, time.June, 1)},
		{CustomerID: "2", Email: "active@example.com", CreatedAt: ts(2023, time.January, 1)},
		{CustomerID: "3", Email: "early@example.com", CreatedAt: ts(2023, time.January, 1), CanceledAt: ts(2023, time.February, 1)},
		{CustomerID: "4", Email: "early@example.com", CreatedAt: ts(2023, time.January, 3), CanceledAt: ts(2023, time.February, 1)},
		{CustomerID: "5", Email: "early@example.com", CanceledAt: ts(2023, time.March, 1)},
	}

	got := CanceledCustomers(records)
	assert.Equal(t, []model.CanceledCustomer{
		{Email: "early@example.com", CanceledAt: ts(2023, time.February, 1)},
		{Email: "early@example.com", CanceledAt: ts(2023, time.March, 1)},
		{Email: "late@example.com", CanceledAt: ts(2023, time.June, 1)},
	}, got)
}

func TestCanceledCustomers_None(t *testing.T) {
	got := CanceledCustomers([]model.CustomerRecord{{CustomerID: "1", CreatedAt: ts(2023, time.January, 1)}})
	assert.Empty(t, got)
}

func TestDedupe(t *testing.T) {
	in := []model.CustomerRecord{
		{CustomerID: "b", Email: "b1"},
		{CustomerID: "a", Email: "a1"},
		{CustomerID: "b", Email: "b2"},
	}
	assert.Equal(t, []model.CustomerRecord{
		{CustomerID: "b", Email: "b1"},
		{CustomerID: "a", Email: "a1"},
	}, Dedupe(in))
}
