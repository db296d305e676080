// Package cohort derives monthly churn metrics from customer creation and
// cancellation timestamps.
package cohort

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
)

var (
	ErrNoValidRecords = errors.New("no record has a valid creation timestamp")
	ErrRangeInFuture  = errors.New("earliest creation month is after the current month")
)

// Aggregate builds one row per month from the earliest valid creation month
// through the month of now, inclusive and without gaps.
//
// Records are deduplicated by customer ID first (first occurrence wins).
// Records without a creation month are ignored entirely. A customer canceled
// in month M counts in Canceled for M and is no longer active in M.
func Aggregate(records []model.CustomerRecord, now time.Time) ([]model.MonthlyRow, error) {
	records = Dedupe(records)

	type span struct{ from, to int } // to < 0: never canceled
	spans := make([]span, 0, len(records))
	start := -1
	for _, r := range records {
		cm, ok := r.CreatedMonth()
		if !ok {
			continue
		}
		s := span{from: cm.Index(), to: -1}
		if xm, ok := r.CanceledMonth(); ok {
			s.to = xm.Index()
		}
		spans = append(spans, s)
		if start < 0 || s.from < start {
			start = s.from
		}
	}
	if len(spans) == 0 {
		return nil, ErrNoValidRecords
	}

	end := model.MonthOf(now).Index()
	if start > end {
		return nil, fmt.Errorf("%w: %s > %s", ErrRangeInFuture, model.MonthFromIndex(start), model.MonthOf(now))
	}

	n := end - start + 1
	created := make([]int, n)
	canceled := make([]int, n)
	// activeDelta is a difference array: a customer is active on [from, to).
	activeDelta := make([]int, n+1)

	for _, s := range spans {
		from := s.from - start
		if from < n {
			created[from]++
		}
		if s.to >= 0 {
			if to := s.to - start; to >= 0 && to < n {
				canceled[to]++
			}
		}

		stop := n
		if s.to >= 0 && s.to-start < stop {
			stop = s.to - start
		}
		if from < stop {
			activeDelta[from]++
			activeDelta[stop]--
		}
	}

	rows := make([]model.MonthlyRow, n)
	active := 0
	for i := 0; i < n; i++ {
		active += activeDelta[i]
		rows[i] = model.MonthlyRow{
			Month:     model.MonthFromIndex(start + i),
			Created:   created[i],
			Canceled:  canceled[i],
			Active:    active,
			ChurnRate: ChurnRate(canceled[i], created[i]),
		}
	}
	return rows, nil
}

// ChurnRate is canceled/created as a percentage, 0 when nothing was created.
func ChurnRate(canceled, created int) float64 {
	if created == 0 {
		return 0
	}
	return float64(canceled) / float64(created) * 100
}
