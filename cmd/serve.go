package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/churnctl/internal/db"
	httpSrv "github.com/jmehdipour/churnctl/internal/http"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/jmehdipour/churnctl/internal/service/analysis"
	"github.com/jmehdipour/churnctl/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the churn dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.Named("serve")
		defer func() { _ = logger.Log.Sync() }()

		redisClient, err := db.NewRedisClient(cmd.Context(), db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}

		var reports store.Store
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
			reports = store.NewRedisStore(redisClient, cfg.Redis.ReportTTL)
			log.Info("report store: redis", zap.String("addr", cfg.Redis.Addr))
		} else {
			reports = store.NewMemoryStore(cfg.Redis.ReportTTL)
			log.Info("report store: memory")
		}

		pub := newPublisher(cfg)
		if pub != nil {
			defer func() { _ = pub.Close() }()
		}

		server := httpSrv.NewServer(cfg, analysis.New(pub, nil), reports, redisClient)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server exited", zap.Error(err))
				return err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
