// Package export renders reports as CSV files, a terminal table and a PNG chart.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jmehdipour/churnctl/internal/model"
)

// CanceledTimeLayout is how cancellation timestamps are written.
const CanceledTimeLayout = "2006-01-02 15:04:05"

var (
	monthlyHeader  = []string{"Month", "Created", "Canceled", "Active", "Churn Rate (%)"}
	canceledHeader = []string{"Customer Email", "canceled_date"}
)

func formatRate(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// WriteMonthlyCSV writes one line per month.
func WriteMonthlyCSV(w io.Writer, rows []model.MonthlyRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(monthlyHeader); err != nil {
		return fmt.Errorf("write monthly header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Month.String(),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Canceled),
			strconv.Itoa(r.Active),
			formatRate(r.ChurnRate),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write month %s: %w", r.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCanceledCSV writes the canceled-customer email list.
func WriteCanceledCSV(w io.Writer, canceled []model.CanceledCustomer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(canceledHeader); err != nil {
		return fmt.Errorf("write canceled header: %w", err)
	}
	for _, c := range canceled {
		if err := cw.Write([]string{c.Email, c.CanceledAt.UTC().Format(CanceledTimeLayout)}); err != nil {
			return fmt.Errorf("write canceled %s: %w", c.Email, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
