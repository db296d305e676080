package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jmehdipour/churnctl/internal/cohort"
	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmehdipour/churnctl/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	reportID string
	got      []model.CanceledCustomer
	err      error
}

func (f *fakePublisher) PublishCanceled(_ context.Context, reportID string, canceled []model.CanceledCustomer) error {
	f.reportID = reportID
	f.got = canceled
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeSource struct {
	records []model.CustomerRecord
	err     error
}

func (f fakeSource) LoadCustomers(context.Context) ([]model.CustomerRecord, error) {
	return f.records, f.err
}

func fixedClock() time.Time { return time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC) }

const sampleExport = "Customer ID,Customer Email,Created (UTC),Canceled At (UTC)\n" +
	"A,a@example.com,2023-01-10 08:00:00,2023-03-05 09:00:00\n" +
	"B,b@example.com,2023-02-01 00:00:00,\n" +
	"A,dup@example.com,2023-05-01 00:00:00,\n"

func TestAnalyzeCSV(t *testing.T) {
	pub := &fakePublisher{}
	svc := New(pub, fixedClock)

	r, err := svc.AnalyzeCSV(context.Background(), "upload", strings.NewReader(sampleExport), ingest.DefaultSchema())
	require.NoError(t, err)

	assert.True(t, util.ValidID(r.ID))
	assert.Equal(t, "upload", r.Source)
	assert.Equal(t, fixedClock(), r.GeneratedAt)
	assert.Equal(t, 2, r.Customers)
	assert.Equal(t, 3, r.Stats.Rows)
	assert.Equal(t, 1, r.Stats.DuplicateDropped)

	require.Len(t, r.Months, 6)
	assert.Equal(t, "2023-01", r.Months[0].Month.String())
	assert.Equal(t, "2023-06", r.Months[5].Month.String())
	assert.Equal(t, 1, r.Months[2].Canceled)
	assert.Equal(t, 1, r.Months[2].Active)

	require.Len(t, r.Canceled, 1)
	assert.Equal(t, "a@example.com", r.Canceled[0].Email)

	assert.Equal(t, r.ID, pub.reportID)
	assert.Equal(t, r.Canceled, pub.got)
}

func TestAnalyze_PublishFailureKeepsReport(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := New(pub, fixedClock)

	r, err := svc.AnalyzeCSV(context.Background(), "csv", strings.NewReader(sampleExport), ingest.DefaultSchema())
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestAnalyze_NoPublisher(t *testing.T) {
	svc := New(nil, fixedClock)
	_, err := svc.AnalyzeCSV(context.Background(), "csv", strings.NewReader(sampleExport), ingest.DefaultSchema())
	require.NoError(t, err)
}

func TestAnalyze_InputErrors(t *testing.T) {
	svc := New(nil, fixedClock)
	ctx := context.Background()

	_, err := svc.AnalyzeCSV(ctx, "csv", strings.NewReader("Customer ID,Created (UTC)\n"), ingest.DefaultSchema())
	assert.ErrorIs(t, err, ingest.ErrMissingColumns)
	assert.True(t, IsInputError(err))

	noDates := "Customer ID,Customer Email,Created (UTC),Canceled At (UTC)\nA,a@example.com,,\n"
	_, err = svc.AnalyzeCSV(ctx, "csv", strings.NewReader(noDates), ingest.DefaultSchema())
	assert.ErrorIs(t, err, cohort.ErrNoValidRecords)
	assert.True(t, IsInputError(err))
}

func TestAnalyzeSource(t *testing.T) {
	svc := New(nil, fixedClock)
	src := fakeSource{records: []model.CustomerRecord{
		{CustomerID: "A", Email: "a@example.com", CreatedAt: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)},
		{CustomerID: "B", Email: "b@example.com"},
		{CustomerID: "", Email: "ghost@example.com", CreatedAt: time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC)},
	}}

	r, err := svc.AnalyzeSource(context.Background(), "mysql", src)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Stats.Rows)
	assert.Equal(t, 1, r.Stats.MissingID)
	assert.Equal(t, 1, r.Stats.InvalidCreated)
	assert.Equal(t, 2, r.Customers)
	require.Len(t, r.Months, 2)
	assert.Equal(t, 1, r.Months[1].Active)
}

func TestAnalyzeSource_LoadError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := New(nil, fixedClock).AnalyzeSource(context.Background(), "mysql", fakeSource{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsInputError(err))
}
