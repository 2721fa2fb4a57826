package utils

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// BackoffRetry runs f up to maxAttempts times, doubling the wait between
// attempts starting from one second. It returns nil on the first success,
// the last error once attempts run out, or the context error on cancel.
func BackoffRetry(ctx context.Context, maxAttempts int, f func() error) error {
	// execute at least once
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	interval := 1
	timer := time.NewTimer(0)
	defer timer.Stop()

	for i := 0; i < maxAttempts; i++ {
		select {
		case <-ctx.Done():
			log.Debug("[retry] abort")
			return ctx.Err()
		case <-timer.C:
			if err = f(); err == nil {
				return nil
			}
			log.Debugf("[retry] will retry after %v seconds", interval)
			timer.Reset(time.Duration(interval) * time.Second)
			interval *= 2
		}
	}
	return err
}
