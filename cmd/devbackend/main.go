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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	platformclock "github.com/webdevelop-pro/invest-common-sub001/internal/platform/clock"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/logging"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "devbackend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}
	cfg, err := config.LoadBackendConfig()
	if err != nil {
		return err
	}
	logger, flush, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewOffsetClock(cfg.ClockOffset)
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := portal.NewService(portal.Deps{
		Notifications:  store.Notifications,
		Wallets:        store.Wallets,
		Investments:    store.Investments,
		Accreditations: store.Accreditations,
		Clock:          clk,
	})
	fixture, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, svc, fixture); err != nil {
		return err
	}
	logger.Info("seeded fixture",
		zap.Int("accounts", len(fixture.Accounts)),
		zap.Int("wallets", len(fixture.Wallets)),
		zap.Int("investments", len(fixture.Investments)),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := httpapi.NewHTTPMetrics("devbackend")
	if err := httpMetrics.Register(reg); err != nil {
		return err
	}

	limiter := httpapi.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, logger)
	jobs, err := startMaintenance(cfg, store.Idempotency, limiter, clk, logger)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	api := httpapi.NewServer(svc, store.Idempotency, clk, logger)
	api.SecureCookies = cfg.SecureCookies
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewSessionAuthMiddleware(svc, true, cfg.DevSubject),
		RateLimiter:    limiter,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("devbackend listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
