package clicker

import (
	"context"
	"time"

	"autoclicker/application/accessor"
	"autoclicker/domain/entities"

	"github.com/sirupsen/logrus"
)

// DefaultIdlePause bounds CPU usage between iterations
const DefaultIdlePause = 10 * time.Millisecond

// Options configures the poll loop
type Options struct {
	SlotCount int
	IdlePause time.Duration
}

// Loop clicks the primary target and buys the first affordable product,
// over and over, until its context is canceled.
type Loop struct {
	access *accessor.Accessor
	opts   Options
	logger *logrus.Entry
	stats  entities.Stats
}

// NewLoop - creates new poll loop
func NewLoop(access *accessor.Accessor, opts Options, logger *logrus.Entry) *Loop {
	if opts.SlotCount <= 0 {
		opts.SlotCount = entities.DefaultSlotCount
	}
	if opts.IdlePause < 0 {
		opts.IdlePause = 0
	}

	return &Loop{
		access: access,
		opts:   opts,
		logger: logger,
	}
}

// Run - runs iterations until ctx is canceled; cancellation is a clean exit
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Infof("Clicking %s, watching %d product slots", entities.PrimaryKey, l.opts.SlotCount)

	for {
		select {
		case <-ctx.Done():
			l.logger.WithFields(logrus.Fields{
				"iterations": l.stats.Iterations,
				"clicks":     l.stats.Clicks,
				"purchases":  l.stats.Purchases,
				"skips":      l.stats.Skips,
			}).Info("Stopped")
			return nil
		default:
		}

		it := l.Iterate(ctx)
		l.stats.Record(it)

		if it.Skipped != entities.SkipNone {
			// restart immediately, liveness first
			l.logger.Debugf("Iteration skipped: %s", it.Skipped)
			continue
		}

		if it.Purchased != nil {
			l.logger.WithFields(logrus.Fields{
				"slot":    it.Purchased.Index,
				"price":   it.Purchased.Price,
				"counter": it.Counter,
			}).Info("Bought product")
		}

		idle(ctx, l.opts.IdlePause)
	}
}

// Iterate - performs one pass: click, read counter, evaluate slots
func (l *Loop) Iterate(ctx context.Context) entities.Iteration {
	var it entities.Iteration

	click := l.access.ClickElement(ctx, entities.PrimaryKey)
	if !click.Clicked() {
		it.Skipped = entities.SkipPrimaryClick
		return it
	}
	it.Clicked = true

	read := l.access.ReadText(ctx, entities.CounterKey)
	if !read.OK() {
		it.Skipped = entities.SkipCounterRead
		return it
	}

	counter, err := ParseCounter(read.Text)
	if err != nil {
		it.Skipped = entities.SkipCounterParse
		return it
	}
	it.Counter = counter

	it.Purchased = l.buyFirstAffordable(ctx, counter)
	return it
}

// buyFirstAffordable walks slots in index order and buys at most one
func (l *Loop) buyFirstAffordable(ctx context.Context, counter int64) *entities.Slot {
	for i := 0; i < l.opts.SlotCount; i++ {
		slot := entities.Slot{Index: i}

		read := l.access.ReadText(ctx, slot.PriceKey())
		if !read.OK() {
			continue
		}

		price, err := ParsePrice(read.Text)
		if err != nil {
			continue
		}
		slot.Price = price

		if !slot.Affordable(counter) {
			continue
		}

		click := l.access.ClickElement(ctx, slot.BuyKey())
		switch click.Outcome {
		case entities.OutcomeOK:
			return &slot
		case entities.OutcomeTimedOut:
			// trigger never became clickable, the next slot may still be
			l.logger.Debugf("Purchase of slot %d timed out: %v", i, click.Err)
			continue
		default:
			l.logger.Debugf("Purchase of slot %d not clicked: %v", i, click.Err)
			return nil
		}
	}

	return nil
}

// Stats - returns totals for the iterations run so far
func (l *Loop) Stats() entities.Stats {
	return l.stats
}

func idle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
