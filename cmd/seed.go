package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmehdipour/churnctl/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const seedTimeLayout = "2006-01-02 15:04:05"

var seedFlags struct {
	out       string
	customers int
	months    int
	churn     float64
	seed      uint64
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a synthetic customer export for demos",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if seedFlags.customers <= 0 || seedFlags.months <= 0 {
			return errors.New("--customers and --months must be positive")
		}
		if seedFlags.churn < 0 || seedFlags.churn > 1 {
			return errors.New("--churn must be within [0, 1]")
		}

		now := time.Now().UTC()
		start := model.MonthOf(now).Start().AddDate(0, -(seedFlags.months - 1), 0)
		rng := rand.New(rand.NewPCG(seedFlags.seed, seedFlags.seed^0x9e3779b97f4a7c15))
		records := generateCustomers(rng, seedFlags.customers, start, now, seedFlags.churn)

		var w io.Writer = cmd.OutOrStdout()
		if seedFlags.out != "-" {
			f, err := os.Create(seedFlags.out)
			if err != nil {
				return fmt.Errorf("create %s: %w", seedFlags.out, err)
			}
			defer f.Close()
			w = f
		}
		if err := writeSeedCSV(w, schemaFrom(cfg), records); err != nil {
			return err
		}

		logger.Named("seed").Info("seed completed",
			zap.String("out", seedFlags.out),
			zap.Int("customers", len(records)),
			zap.String("from", start.Format("2006-01")),
		)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.StringVarP(&seedFlags.out, "out", "o", "customers.csv", "output path (\"-\" for stdout)")
	f.IntVar(&seedFlags.customers, "customers", 500, "number of customers")
	f.IntVar(&seedFlags.months, "months", 24, "months of history, ending with the current month")
	f.Float64Var(&seedFlags.churn, "churn", 0.05, "monthly cancellation probability")
	f.Uint64Var(&seedFlags.seed, "seed", 1, "random seed")
}

// generateCustomers creates n customers signing up uniformly in [start, end).
// Each month after signup a customer cancels with probability churn.
func generateCustomers(rng *rand.Rand, n int, start, end time.Time, churn float64) []model.CustomerRecord {
	span := end.Sub(start)
	out := make([]model.CustomerRecord, 0, n)
	for i := 0; i < n; i++ {
		created := start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Second)
		rec := model.CustomerRecord{
			CustomerID: util.NewCustomerID(created),
			Email:      fmt.Sprintf("customer%04d@example.com", i+1),
			CreatedAt:  created,
		}
		for m := model.MonthOf(created); !m.After(model.MonthOf(end)); m = m.Next() {
			if rng.Float64() >= churn {
				continue
			}
			from := m.Start()
			if from.Before(created) {
				from = created
			}
			to := m.Next().Start()
			if to.After(end) {
				to = end
			}
			if !from.Before(to) {
				break
			}
			rec.CanceledAt = from.Add(time.Duration(rng.Int64N(int64(to.Sub(from))))).Truncate(time.Second)
			break
		}
		out = append(out, rec)
	}
	return out
}

func writeSeedCSV(w io.Writer, schema ingest.Schema, records []model.CustomerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(schema.Columns(), "Plan")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	plans := []string{"basic", "pro", "enterprise"}
	for i, r := range records {
		canceled := ""
		if r.Canceled() {
			canceled = r.CanceledAt.Format(seedTimeLayout)
		}
		if err := cw.Write([]string{r.CustomerID, r.Email, r.CreatedAt.Format(seedTimeLayout), canceled, plans[i%len(plans)]}); err != nil {
			return fmt.Errorf("write %s: %w", r.CustomerID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
