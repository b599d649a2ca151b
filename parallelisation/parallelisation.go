// Package parallelisation provides the concurrency primitives the engine is built on:
// context aware sleep and scheduling, and execution groups which run registered functions
// according to ordering rules (parallel, sequential, reverse).
package parallelisation

import (
	"context"
	"time"

	"github.com/txkit-go/txkit/commonerrors"
)

// DetermineContextError reports the context state as a common error: ErrCancelled or
// ErrTimeout wrapping the cancellation cause, nil when the context is still live.
func DetermineContextError(ctx context.Context) error {
	err := commonerrors.ErrFromContext(ctx)
	if commonerrors.Any(err, nil) {
		return err
	}
	return commonerrors.WrapError(err, context.Cause(ctx), "")
}

// SleepWithContext pauses the current goroutine for at least duration `d` and returns earlier
// if the context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	err := DetermineContextError(ctx)
	if err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return DetermineContextError(ctx)
	case <-timer.C:
		return nil
	}
}

// Schedule runs f on a fixed cadence until the context is cancelled: every `period`,
// shifted by `offset` from the period boundary.
func Schedule(ctx context.Context, period time.Duration, offset time.Duration, f func(time.Time)) {
	SafeSchedule(ctx, period, offset, func(_ context.Context, t time.Time) {
		f(t)
	})
}

// SafeSchedule runs f on a fixed cadence until the context is cancelled. The context is
// passed on to f so that a long run can stop early on cancellation.
func SafeSchedule(ctx context.Context, period time.Duration, offset time.Duration, f func(context.Context, time.Time)) {
	go func() {
		// First run lands on a period boundary shifted by offset.
		first := time.Now().Truncate(period).Add(offset)
		if first.Before(time.Now()) {
			first = first.Add(period)
		}
		select {
		case <-ctx.Done():
			return
		case at := <-time.After(time.Until(first)):
			// The ticker starts before f runs so a slow f cannot shift the cadence.
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			for {
				if DetermineContextError(ctx) == nil {
					f(ctx, at)
				}
				select {
				case <-ctx.Done():
					return
				case at = <-ticker.C:
				}
			}
		}
	}()
}
