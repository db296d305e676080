package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jmehdipour/churnctl/internal/cohort"
	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/kafka"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/jmehdipour/churnctl/internal/metrics"
	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmehdipour/churnctl/internal/repository"
	"github.com/jmehdipour/churnctl/internal/util"
	"go.uber.org/zap"
)

// Service turns customer records into a churn report.
type Service struct {
	publisher kafka.Publisher
	now       func() time.Time
	log       *zap.Logger
}

// New constructs the analysis service. publisher may be nil; now defaults to time.Now.
func New(publisher kafka.Publisher, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		publisher: publisher,
		now:       now,
		log:       logger.Named("analysis"),
	}
}

// AnalyzeCSV reads a customer export and analyzes it.
func (s *Service) AnalyzeCSV(ctx context.Context, source string, r io.Reader, schema ingest.Schema) (*model.Report, error) {
	records, stats, err := ingest.ReadCSV(r, schema)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return s.Analyze(ctx, source, records, stats)
}

// AnalyzeSource loads records from a database source and analyzes them.
func (s *Service) AnalyzeSource(ctx context.Context, source string, src repository.CustomerSource) (*model.Report, error) {
	loaded, err := src.LoadCustomers(ctx)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	// same accounting as ReadCSV: blank ids are skipped and counted
	stats := model.IngestStats{Rows: len(loaded)}
	records := make([]model.CustomerRecord, 0, len(loaded))
	for _, r := range loaded {
		if r.CustomerID == "" {
			stats.MissingID++
			continue
		}
		if r.CreatedAt.IsZero() {
			stats.InvalidCreated++
		}
		records = append(records, r)
	}
	return s.Analyze(ctx, source, records, stats)
}

// Analyze aggregates records into monthly rows and the canceled-customer
// list. The current month is taken from the service clock once per call.
func (s *Service) Analyze(ctx context.Context, source string, records []model.CustomerRecord, stats model.IngestStats) (*model.Report, error) {
	start := time.Now()
	now := s.now().UTC()

	unique := cohort.Dedupe(records)
	stats.DuplicateDropped = len(records) - len(unique)
	observeStats(stats)

	rows, err := cohort.Aggregate(unique, now)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("aggregate %s: %w", source, err)
	}

	report := &model.Report{
		ID:          util.NewID(now),
		Source:      source,
		GeneratedAt: now,
		Customers:   len(unique),
		Months:      rows,
		Canceled:    cohort.CanceledCustomers(unique),
		Stats:       stats,
	}

	metrics.AnalysisDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.AnalysesTotal.WithLabelValues(source, "ok").Inc()
	s.log.Info("analysis completed",
		zap.String("report_id", report.ID),
		zap.String("source", source),
		zap.Int("customers", report.Customers),
		zap.Int("months", len(rows)),
		zap.Int("canceled", len(report.Canceled)),
		zap.Int("invalid_created", stats.InvalidCreated),
		zap.Int("duplicates", stats.DuplicateDropped),
	)

	s.publish(ctx, report)
	return report, nil
}

// publish failures are logged and counted; the report is still returned.
func (s *Service) publish(ctx context.Context, report *model.Report) {
	if s.publisher == nil || len(report.Canceled) == 0 {
		return
	}
	if err := s.publisher.PublishCanceled(ctx, report.ID, report.Canceled); err != nil {
		metrics.CanceledPublishedTotal.WithLabelValues("error").Add(float64(len(report.Canceled)))
		s.log.Error("publish canceled customers failed", zap.String("report_id", report.ID), zap.Error(err))
		return
	}
	metrics.CanceledPublishedTotal.WithLabelValues("ok").Add(float64(len(report.Canceled)))
}

func observeStats(st model.IngestStats) {
	metrics.IngestRowsTotal.WithLabelValues("read").Add(float64(st.Rows))
	metrics.IngestRowsTotal.WithLabelValues("missing_id").Add(float64(st.MissingID))
	metrics.IngestRowsTotal.WithLabelValues("invalid_created").Add(float64(st.InvalidCreated))
	metrics.IngestRowsTotal.WithLabelValues("invalid_canceled").Add(float64(st.InvalidCanceled))
	metrics.IngestRowsTotal.WithLabelValues("duplicate").Add(float64(st.DuplicateDropped))
}

// IsInputError reports whether err was caused by the input rather than the system.
func IsInputError(err error) bool {
	return errors.Is(err, ingest.ErrEmptyInput) ||
		errors.Is(err, ingest.ErrMissingColumns) ||
		errors.Is(err, ingest.ErrMalformed) ||
		errors.Is(err, cohort.ErrNoValidRecords) ||
		errors.Is(err, cohort.ErrRangeInFuture)
}
