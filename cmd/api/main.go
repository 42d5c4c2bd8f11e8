package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lifebalance/intake-api/internal/app"
	"github.com/lifebalance/intake-api/internal/config"
	"github.com/lifebalance/intake-api/internal/handler/download"
	"github.com/lifebalance/intake-api/internal/handler/health"
	"github.com/lifebalance/intake-api/internal/handler/instrument"
	intakeHandler "github.com/lifebalance/intake-api/internal/handler/intake"
	"github.com/lifebalance/intake-api/internal/router"
	intakeService "github.com/lifebalance/intake-api/internal/service/intake"
	"github.com/lifebalance/intake-api/internal/service/submission"
	"github.com/lifebalance/intake-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := app.NewLogger(cfg.Logging)
	logger.SetGlobal()
	zl := *logger.Zerolog()

	// Metrics
	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Monitoring.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(cfg.Monitoring.Namespace, "", reg)
		gatherer = reg
	} else {
		m = metrics.NewNop()
	}

	// Stores
	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	stores, err := app.NewStores(startCtx, cfg.Session, zl)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session store")
		}
	}()

	// Services
	renderer, err := app.NewRenderer(cfg, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build document renderer")
	}
	relay := app.NewRelay(cfg)
	if relay == nil {
		log.Warn().Msg("no email relay configured, every intake will use the download fallback")
	} else {
		log.Info().Str("relay", relay.Name()).Msg("email relay configured")
	}
	pipeline := submission.NewPipeline(renderer, relay, stores.Downloads, app.SubmissionConfig(cfg), m, zl)
	intakeSvc := intakeService.NewService(stores.Sessions, renderer, pipeline, m, zl)

	// Router
	r := router.NewRouter(
		intakeHandler.NewHandler(intakeSvc),
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			SubmitLimit:      rate.Limit(cfg.RateLimit.SubmitPerMinute / 60),
			SubmitBurst:      int(cfg.RateLimit.SubmitPerMinute),
			Gatherer:         gatherer,
			Metrics:          m,
		},
		health.NewHandler(stores.Sessions),
		instrument.NewHandler(),
		download.NewHandler(stores.Downloads),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("intake api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
