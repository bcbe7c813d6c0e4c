package browser

import (
	"context"
	"fmt"
	"time"
)

// await runs a blocking driver call and returns as soon as either the call
// finishes or ctx is done. A call abandoned on cancellation finishes in the
// background and its result is dropped.
func await[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	done := make(chan result, 1)
	go func() {
		val, err := call()
		done <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

// pollUntil calls check every interval until it reports true, returns an
// error, timeout elapses or ctx is done. Expiry wraps context.DeadlineExceeded.
func pollUntil(ctx context.Context, timeout, interval time.Duration, check func() (bool, error)) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("condition not met after %s: %w", timeout, context.DeadlineExceeded)
		case <-ticker.C:
		}
	}
}
