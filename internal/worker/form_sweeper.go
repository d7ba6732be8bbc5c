package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FormExpirer closes forms left idle for too long.
type FormExpirer interface {
	ExpireIdleForms(maxIdle time.Duration) int
}

// StartFormSweeper periodically closes idle forms until ctx is done. The
// returned channel is closed once the sweeper has stopped.
func StartFormSweeper(ctx context.Context, forms FormExpirer, interval, maxIdle time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if forms == nil || interval <= 0 || maxIdle <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := forms.ExpireIdleForms(maxIdle); n > 0 {
					logger.Info("idle forms closed", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}
