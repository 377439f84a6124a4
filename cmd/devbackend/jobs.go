package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
	clockport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/clock"
	idempotencyport "github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
)

const limiterIdle = 10 * time.Minute

// maintenance drops expired idempotency records and idle rate limiter
// entries.
type maintenance struct {
	idem    idempotencyport.Store
	limiter *httpapi.RateLimiter
	clk     clockport.Clock
	ttl     time.Duration
	logger  *zap.Logger
}

func (m maintenance) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := m.idem.Purge(ctx, m.clk.Now().Add(-m.ttl))
	if err != nil {
		m.logger.Warn("purge idempotency records", zap.Error(err))
	}
	swept := 0
	if m.limiter != nil {
		swept = m.limiter.Sweep(limiterIdle)
	}
	m.logger.Debug("maintenance", zap.Int("idempotency_purged", purged), zap.Int("limiters_swept", swept))
}

func startMaintenance(cfg config.BackendConfig, idem idempotencyport.Store, limiter *httpapi.RateLimiter, clk clockport.Clock, logger *zap.Logger) (*cron.Cron, error) {
	m := maintenance{idem: idem, limiter: limiter, clk: clk, ttl: cfg.IdempotencyTTL, logger: logger}
	c := cron.New()
	if _, err := c.AddFunc(cfg.PurgeSchedule, m.run); err != nil {
		return nil, fmt.Errorf("PURGE_SCHEDULE %q: %w", cfg.PurgeSchedule, err)
	}
	c.Start()
	return c, nil
}
