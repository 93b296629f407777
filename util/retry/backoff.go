package retry

import (
	"context"
	"time"
)

// sleepFunc is replaced in tests.
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffAndSleep sleeps for (backoffMultiplier*retries)+1 units of
// durationType, returning early with the context error if ctx is done.
func BackoffAndSleep(ctx context.Context, retries int, backoffMultiplier int, durationType time.Duration) error {
	backoff := (backoffMultiplier * retries) + 1

	return sleepFunc(ctx, time.Duration(backoff)*durationType)
}
