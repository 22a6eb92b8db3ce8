package app

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 2 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the active
// resource of the store. Consecutive failures stretch the delay up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client *magnetdb.Client, logger log.Interface, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			_ = refresh(ctx, store, client, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
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

func refresh(ctx context.Context, store *state.Store, client *magnetdb.Client, logger log.Interface) error {
	active := store.Active()
	err := store.Refresh(ctx, client, active)
	if err != nil && ctx.Err() == nil {
		logger.WithError(err).WithField("resource", string(active)).Warn("poll failed")
	}
	return err
}
