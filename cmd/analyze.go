package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/churnctl/internal/config"
	"github.com/jmehdipour/churnctl/internal/db"
	"github.com/jmehdipour/churnctl/internal/export"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmehdipour/churnctl/internal/repository"
	"github.com/jmehdipour/churnctl/internal/service/analysis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeFlags struct {
	file   string
	source string
	out    string
	now    string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one customer export and write the churn artifacts",
	Example: `  churnctl analyze --file customers.csv
  churnctl analyze --source mysql --out ./reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(func(c *config.Config) {
			if analyzeFlags.source != "" {
				c.Source.Kind = analyzeFlags.source
			}
			if analyzeFlags.out != "" {
				c.Output.Dir = analyzeFlags.out
			}
		})
		if err != nil {
			return err
		}
		log := logger.Named("analyze")

		clock, err := clockFrom(analyzeFlags.now)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pub := newPublisher(cfg)
		if pub != nil {
			defer func() { _ = pub.Close() }()
		}
		svc := analysis.New(pub, clock)

		report, err := runAnalysis(ctx, cfg, svc, analyzeFlags.file)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := export.WriteTable(out, report.Months); err != nil {
			return fmt.Errorf("print table: %w", err)
		}

		paths, err := export.WriteArtifacts(cfg.Output.Dir, report, export.FileNames{
			Monthly:  cfg.Output.MonthlyFile,
			Canceled: cfg.Output.CanceledFile,
			Chart:    cfg.Output.ChartFile,
		}, export.ChartOptions{Width: cfg.Output.ChartWidth, Height: cfg.Output.ChartHeight})
		if err != nil {
			return fmt.Errorf("write artifacts: %w", err)
		}

		fmt.Fprintf(out, "\n%d customers, %d canceled\n", report.Customers, len(report.Canceled))
		for _, p := range paths {
			fmt.Fprintf(out, "wrote %s\n", p)
		}
		log.Info("artifacts written", zap.String("report_id", report.ID), zap.Strings("paths", paths))
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "customer export CSV (\"-\" reads stdin); required for the csv source")
	f.StringVar(&analyzeFlags.source, "source", "", "override source.kind: csv | mysql | clickhouse")
	f.StringVarP(&analyzeFlags.out, "out", "o", "", "override output.dir")
	f.StringVar(&analyzeFlags.now, "now", "", "analyze as of this date (YYYY-MM-DD) instead of today")
}

func runAnalysis(ctx context.Context, cfg config.Config, svc *analysis.Service, file string) (*model.Report, error) {
	switch cfg.Source.Kind {
	case config.SourceMySQL:
		dbx, err := db.NewMySQLConnection(ctx, cfg.MySQL.DSN, db.OptsFrom(cfg.MySQL))
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		defer dbx.Close()
		return svc.AnalyzeSource(ctx, config.SourceMySQL, repository.NewSQLCustomerSource(dbx, cfg.Source.Query))

	case config.SourceClickHouse:
		dbx, err := db.NewClickHouseConnection(ctx, cfg.ClickHouse.DSN, db.OptsFrom(cfg.ClickHouse))
		if err != nil {
			return nil, fmt.Errorf("clickhouse connect: %w", err)
		}
		defer dbx.Close()
		return svc.AnalyzeSource(ctx, config.SourceClickHouse, repository.NewSQLCustomerSource(dbx, cfg.Source.Query))

	default:
		if file == "" {
			return nil, errors.New("--file is required when source.kind is csv")
		}
		var r io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			r = f
		}
		return svc.AnalyzeCSV(ctx, config.SourceCSV, r, schemaFrom(cfg))
	}
}

// clockFrom returns nil (wall clock) for an empty value.
func clockFrom(s string) (func() time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: want YYYY-MM-DD", s)
	}
	return func() time.Time { return t }, nil
}
