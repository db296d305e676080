package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmehdipour/churnctl/internal/config"
	"github.com/jmehdipour/churnctl/internal/export"
	"github.com/jmehdipour/churnctl/internal/http/middleware"
	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/logger"
	"github.com/jmehdipour/churnctl/internal/metrics"
	"github.com/jmehdipour/churnctl/internal/service/analysis"
	"github.com/jmehdipour/churnctl/internal/store"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct{ e *echo.Echo }

// NewServer wires the dashboard. rds may be nil, which disables rate limiting.
func NewServer(cfg config.Config, svc *analysis.Service, st store.Store, rds *redis.Client) *Server {
	h := &reportHandlers{
		svc:   svc,
		store: st,
		schema: ingest.Schema{
			CustomerID: cfg.Input.CustomerIDColumn,
			Email:      cfg.Input.EmailColumn,
			CreatedAt:  cfg.Input.CreatedColumn,
			CanceledAt: cfg.Input.CanceledColumn,
		},
		files: export.FileNames{
			Monthly:  cfg.Output.MonthlyFile,
			Canceled: cfg.Output.CanceledFile,
			Chart:    cfg.Output.ChartFile,
		},
		chart: export.ChartOptions{Width: cfg.Output.ChartWidth, Height: cfg.Output.ChartHeight},
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(cfg.Log.Level))
	e.Renderer = newPageRenderer()
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	e.IPExtractor = ipExtractor(cfg.HTTP.TrustProxy)
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	bodyMW := echoMid.BodyLimit(fmt.Sprintf("%dM", cfg.HTTP.MaxUploadMB))
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		Burst:          cfg.RateLimit.Burst,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	e.GET("/", h.index)
	e.POST("/reports", h.upload, rlMW, bodyMW)
	e.GET("/reports/:id", h.page)
	e.GET("/reports/:id/monthly.csv", h.monthlyCSV)
	e.GET("/reports/:id/canceled.csv", h.canceledCSV)
	e.GET("/reports/:id/chart.png", h.chartPNG)

	api := e.Group("/api")
	api.POST("/reports", h.apiUpload, rlMW, bodyMW)
	api.GET("/reports/:id", h.apiReport)

	return &Server{e: e}
}

// ipExtractor decides what c.RealIP returns. Forwarding headers are only
// honored behind a proxy on a loopback or private address.
func ipExtractor(trustProxy bool) echo.IPExtractor {
	if trustProxy {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}

func echoLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logger.Named("http").Info("listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
