package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []model.MonthlyRow {
	return []model.MonthlyRow{
		{Month: model.MonthKey{Year: 2023, Month: time.January}, Created: 2, Canceled: 0, Active: 2},
		{Month: model.MonthKey{Year: 2023, Month: time.February}, Created: 0, Canceled: 0, Active: 2},
		{Month: model.MonthKey{Year: 2023, Month: time.March}, Created: 3, Canceled: 1, Active: 4, ChurnRate: 100.0 / 3},
	}
}

func TestWriteMonthlyCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, sampleRows()))

	want := "Month,Created,Canceled,Active,Churn Rate (%)\n" +
		"2023-01,2,0,2,0.00\n" +
		"2023-02,0,0,2,0.00\n" +
		"2023-03,3,1,4,33.33\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMonthlyCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, nil))
	assert.Equal(t, "Month,Created,Canceled,Active,Churn Rate (%)\n", buf.String())
}

func TestWriteCanceledCSV(t *testing.T) {
	canceled := []model.CanceledCustomer{
		{Email: "a@example.com", CanceledAt: time.Date(2023, 3, 5, 10, 30, 0, 0, time.UTC)},
		{Email: "b,c@example.com", CanceledAt: time.Date(2023, 4, 1, 0, 0, 0, 0, time.FixedZone("x", 3600))},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCanceledCSV(&buf, canceled))

	want := "Customer Email,canceled_date\n" +
		"a@example.com,2023-03-05 10:30:00\n" +
		"\"b,c@example.com\",2023-03-31 23:00:00\n"
	assert.Equal(t, want, buf.String())
}
