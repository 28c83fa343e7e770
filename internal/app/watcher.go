package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/pimenu/internal/reload"
	"github.com/five82/pimenu/internal/state"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// watchFunc matches reload.Watch.
type watchFunc func(ctx context.Context, path string, logger *slog.Logger, onReady, onChange func()) error

// calculateBackoff returns the retry delay after the given number of
// consecutive failures, doubling from base up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// WatchMenu records edits to the menu file in store until ctx is done. A
// failing watch is restarted with exponential backoff; the recorded failure is
// cleared once a restarted watch is registered again.
func WatchMenu(ctx context.Context, path string, store *state.Store, logger *slog.Logger) {
	runWatcher(ctx, path, store, logger, reload.Watch, defaultRetryInterval)
}

func runWatcher(ctx context.Context, path string, store *state.Store, logger *slog.Logger, watch watchFunc, base time.Duration) {
	failures := 0
	onChange := func() { store.MarkChanged(time.Now()) }
	onReady := func() {
		if store.Snapshot().WatchErrors > 0 {
			logger.Info("menu watch recovered")
		}
		store.RecordError(nil)
	}

	for {
		started := time.Now()
		err := watch(ctx, path, logger, onReady, onChange)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errors.New("menu watch stopped")
		}
		// A watch that held up for a while starts the backoff over.
		if time.Since(started) > maxBackoff {
			failures = 0
		}

		store.RecordError(err)
		delay := calculateBackoff(failures, base)
		failures++
		logger.Warn("menu watch failed", "error", err, "retry_in", delay, "failures", failures)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
