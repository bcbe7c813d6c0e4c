package accessor

import (
	"context"
	"errors"
	"time"

	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	DefaultAttempts    = 3
	DefaultPause       = 100 * time.Millisecond
	DefaultWaitTimeout = 30 * time.Second
)

// Options tunes the retry policy
type Options struct {
	Attempts    int
	Pause       time.Duration
	WaitTimeout time.Duration
}

// DefaultOptions returns the policy used against the live page
func DefaultOptions() Options {
	return Options{
		Attempts:    DefaultAttempts,
		Pause:       DefaultPause,
		WaitTimeout: DefaultWaitTimeout,
	}
}

// Accessor reads and clicks page elements, re-resolving the key on every
// attempt and absorbing stale references with a bounded retry.
type Accessor struct {
	session interfaces.Session
	opts    Options
	logger  *logrus.Logger
}

// NewAccessor - creates new element accessor over the session
func NewAccessor(session interfaces.Session, opts Options, logger *logrus.Logger) *Accessor {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Pause <= 0 {
		opts.Pause = DefaultPause
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}

	return &Accessor{
		session: session,
		opts:    opts,
		logger:  logger,
	}
}

// ReadText - returns the element's displayed text
//
// Stale failures are retried up to Attempts times. When retries run out, or
// the element is not present yet, a single bounded wait for presence is made.
func (a *Accessor) ReadText(ctx context.Context, key string) entities.TextResult {
	result := entities.TextResult{Outcome: entities.OutcomeRetryable}

	for result.Attempts < a.opts.Attempts {
		result.Attempts++

		text, err := a.session.Text(ctx, key)
		if err == nil {
			result.Text = text
			result.Outcome = entities.OutcomeOK
			result.Err = nil
			return result
		}
		result.Err = err

		if errors.Is(err, entities.ErrElementNotFound) {
			break
		}
		if !errors.Is(err, entities.ErrStaleElement) {
			return result
		}

		a.logger.Debugf("Stale read of %s (attempt %d/%d)", key, result.Attempts, a.opts.Attempts)
		if !sleep(ctx, a.opts.Pause) {
			result.Err = ctx.Err()
			return result
		}
	}

	result.FellBack = true
	text, err := a.session.WaitText(ctx, key, a.opts.WaitTimeout)
	if err != nil {
		result.Err = err
		if errors.Is(err, entities.ErrLookupTimeout) {
			result.Outcome = entities.OutcomeTimedOut
		}
		return result
	}

	result.Text = text
	result.Outcome = entities.OutcomeOK
	result.Err = nil
	return result
}

// ClickElement - waits for the element to be clickable and clicks it
//
// A non-clicked result means "try again next cycle", never a fatal condition.
func (a *Accessor) ClickElement(ctx context.Context, key string) entities.ClickResult {
	result := entities.ClickResult{Outcome: entities.OutcomeRetryable}

	for result.Attempts < a.opts.Attempts {
		result.Attempts++

		err := a.session.WaitClick(ctx, key, a.opts.WaitTimeout)
		if err == nil {
			result.Outcome = entities.OutcomeOK
			result.Err = nil
			return result
		}
		result.Err = err

		if errors.Is(err, entities.ErrLookupTimeout) {
			result.Outcome = entities.OutcomeTimedOut
			return result
		}
		if !errors.Is(err, entities.ErrStaleElement) {
			return result
		}

		a.logger.Debugf("Stale click on %s (attempt %d/%d)", key, result.Attempts, a.opts.Attempts)
		if !sleep(ctx, a.opts.Pause) {
			result.Err = ctx.Err()
			return result
		}
	}

	return result
}

// sleep waits for d or until ctx is done; false means ctx was canceled
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
