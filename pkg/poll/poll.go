// Package poll waits for eventually-consistent records with a bounded
// fixed-interval check loop.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when the condition did not hold within the
// configured number of attempts.
var ErrExhausted = errors.New("poll attempts exhausted")

// Config bounds a poll loop. Sleep is injectable for tests; the default
// honors context cancellation.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       func(ctx context.Context, d time.Duration) error
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 500 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	return c
}

// Until runs fn at a fixed interval until it reports ready, errors, or the
// attempt budget runs out. Each failed check is followed by one interval
// sleep, so the worst case duration is MaxAttempts * Interval.
func Until(ctx context.Context, cfg Config, fn func(ctx context.Context) (bool, error)) error {
	cfg = cfg.withDefaults()

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		ok, err := fn(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return err
		}
	}

	return ErrExhausted
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
