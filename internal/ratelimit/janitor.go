package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor periodically purges expired limiter entries so the table stays
// bounded to the keys active in the current window. It owns its scheduler;
// Stop ties its lifetime to process shutdown.
type Janitor struct {
	limiter  *Limiter
	logger   *zap.Logger
	cron     *cron.Cron
	interval time.Duration
}

// NewJanitor builds a janitor sweeping the limiter at the given interval.
func NewJanitor(limiter *Limiter, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		limiter:  limiter,
		logger:   logger,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := j.cron.AddFunc(schedule, func() {
		removed := j.limiter.Sweep(time.Now())
		if removed > 0 {
			j.logger.Debug("rate limit entries purged",
				zap.Int("removed", removed),
				zap.Int("remaining", j.limiter.Len()),
			)
		}
	}); err != nil {
		j.logger.Error("rate limit sweep not scheduled",
			zap.String("schedule", schedule),
			zap.Error(err),
		)
	}

	return j
}

// Start launches the sweep scheduler.
func (j *Janitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("rate limit janitor started", zap.Duration("interval", j.interval))
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep.
func (j *Janitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("rate limit janitor stopped")
}
