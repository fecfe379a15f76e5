package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// MonitorHealth runs check on every tick and stores the result in healthy.
// Only transitions are logged.
func MonitorHealth(ctx context.Context, name string, healthy *atomic.Bool, interval time.Duration, check func(ctx context.Context) bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval/2)
			isHealthy := check(checkCtx)
			cancel()

			if was := healthy.Swap(isHealthy); was != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Dependency recovered", slog.String("name", name))
				} else {
					slog.Warn("[HealthCheck] Dependency is unhealthy", slog.String("name", name))
				}
			}
			DependencyUp.WithLabelValues(name).Set(boolToFloat(isHealthy))
		}
	}
}

func MonitorValkeyHealth(ctx context.Context, healthy *atomic.Bool, ping func(ctx context.Context) bool) {
	MonitorHealth(ctx, "valkey", healthy, HEALTHCHECK_TIMER, ping)
}

// AllHealthy is true when every flag is set. No flags means healthy.
func AllHealthy(flags ...*atomic.Bool) bool {
	for _, f := range flags {
		if f != nil && !f.Load() {
			return false
		}
	}
	return true
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
