package app

import (
	"context"
	"time"
)

const (
	defaultTick = time.Second
	maxBackoff  = 30 * time.Second
)

// StartClock launches the kitchen clock: a goroutine that ticks the session
// at a fixed cadence until ctx is cancelled. It returns immediately.
func StartClock(ctx context.Context, session *Session, interval time.Duration) {
	if interval <= 0 {
		interval = defaultTick
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				session.Tick(ctx)
			}
		}
	}()
}

// calculateBackoff doubles the retry delay per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
