package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RunDaily invokes run once per day at the configured local wall-clock time
// ("HH:MM") until the context is cancelled. A failing run is logged and the
// scheduler keeps going; missing one day's mix must not stop the next.
func RunDaily(ctx context.Context, dailyTime string, run func(context.Context) error, logger *log.Logger) error {
	at, err := time.Parse("15:04", dailyTime)
	if err != nil {
		return fmt.Errorf("parse daily time %q: %w", dailyTime, err)
	}

	for {
		next := nextRun(time.Now(), at.Hour(), at.Minute())
		if logger != nil {
			logger.Printf("next run at %s", next.Format(time.RFC3339))
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if logger != nil {
				logger.Printf("scheduled run failed: %v", err)
			}
		}
	}
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
