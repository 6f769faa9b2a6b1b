// Package clock holds the time helpers shared by fetching and reporting: UTC day bucketing
// and context-aware pauses.
package clock

import (
	"context"
	"time"
)

// Pause blocks for d or until ctx is done. On cancellation it returns context.Cause(ctx).
// A non-positive d only checks ctx.
func Pause(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}
