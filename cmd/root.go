package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jmehdipour/churnctl/internal/config"
	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/kafka"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "churnctl",
		Short:         "Monthly customer churn analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "path to YAML config file")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig loads the configuration, applies flag overrides, validates it
// and initializes the logger.
func loadConfig(overrides ...func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(configPath(cfgPath, rootCmd.PersistentFlags().Changed("config")))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	return cfg, nil
}

// configPath drops the default path when that file does not exist, so a
// bare `churnctl analyze` runs on embedded defaults. An explicit --config must exist.
func configPath(path string, explicit bool) string {
	if explicit {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

func schemaFrom(cfg config.Config) ingest.Schema {
	return ingest.Schema{
		CustomerID: cfg.Input.CustomerIDColumn,
		Email:      cfg.Input.EmailColumn,
		CreatedAt:  cfg.Input.CreatedColumn,
		CanceledAt: cfg.Input.CanceledColumn,
	}
}

// newPublisher returns nil when Kafka is not configured.
func newPublisher(cfg config.Config) kafka.Publisher {
	p := kafka.NewProducerFromConfig(kafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.CanceledTopic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	})
	if p == nil {
		return nil
	}
	return kafka.NewBreaker(p, cfg.Kafka.BreakerThreshold, cfg.Kafka.BreakerOpenFor)
}
