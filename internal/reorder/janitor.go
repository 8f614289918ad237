package reorder

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the buffer surface the janitor maintains.
type Sweeper interface {
	Sweep(maxAge time.Duration) int
}

// Janitor periodically evicts media-group buffers that never finalized, as
// a backstop behind the debounce timer.
type Janitor struct {
	cache    Sweeper
	interval time.Duration
	maxAge   time.Duration
}

// NewJanitor creates a janitor sweeping cache every interval, evicting
// entries older than maxAge.
func NewJanitor(cache Sweeper, interval, maxAge time.Duration) *Janitor {
	return &Janitor{
		cache:    cache,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. Cancellation is
// the normal shutdown path and returns nil.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	slog.Debug("janitor started", "interval", j.interval, "max_age", j.maxAge)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("janitor stopped")
			return nil
		case <-ticker.C:
			if evicted := j.cache.Sweep(j.maxAge); evicted > 0 {
				slog.Info("evicted stale media groups", "count", evicted)
			}
		}
	}
}
