package clicker

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"autoclicker/application/accessor"
	"autoclicker/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage serves element texts from a map and records every access
type fakePage struct {
	texts     map[string]string
	clickErrs map[string]error
	calls     []string

	// onAccess runs before each recorded access
	onAccess func(call string)
}

func newFakePage(texts map[string]string) *fakePage {
	return &fakePage{texts: texts, clickErrs: map[string]error{}}
}

func (p *fakePage) record(call string) {
	if p.onAccess != nil {
		p.onAccess(call)
	}
	p.calls = append(p.calls, call)
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }

func (p *fakePage) Text(ctx context.Context, key string) (string, error) {
	p.record("text:" + key)
	text, ok := p.texts[key]
	if !ok {
		return "", fmt.Errorf("#%s: %w", key, entities.ErrElementNotFound)
	}
	return text, nil
}

func (p *fakePage) WaitText(ctx context.Context, key string, timeout time.Duration) (string, error) {
	p.record("wait:" + key)
	text, ok := p.texts[key]
	if !ok {
		return "", fmt.Errorf("#%s: %w", key, entities.ErrLookupTimeout)
	}
	return text, nil
}

func (p *fakePage) WaitClickable(ctx context.Context, key string, timeout time.Duration) error {
	p.record("clickable:" + key)
	return p.clickErrs[key]
}

func (p *fakePage) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	p.record("click:" + key)
	return p.clickErrs[key]
}

func (p *fakePage) ClickText(ctx context.Context, fragment string, timeout time.Duration) error {
	return nil
}

func (p *fakePage) Detach() error { return nil }

func (p *fakePage) clicks() []string {
	var out []string
	for _, c := range p.calls {
		if len(c) > 6 && c[:6] == "click:" {
			out = append(out, c[6:])
		}
	}
	return out
}

func (p *fakePage) count(call string) int {
	n := 0
	for _, c := range p.calls {
		if c == call {
			n++
		}
	}
	return n
}

func newTestLoop(page *fakePage, slots int) *Loop {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	access := accessor.NewAccessor(page, accessor.Options{
		Attempts:    3,
		Pause:       time.Millisecond,
		WaitTimeout: 10 * time.Millisecond,
	}, logger)

	return NewLoop(access, Options{SlotCount: slots, IdlePause: time.Millisecond}, logrus.NewEntry(logger))
}

func TestIterateBuysFirstAffordableByIndex(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "150 cookies",
		"productPrice0": "100",
		"productPrice1": "200",
		"productPrice2": "50",
		"productPrice3": "N/A",
	})

	it := newTestLoop(page, 4).Iterate(context.Background())

	require.NotNil(t, it.Purchased)
	assert.Equal(t, 0, it.Purchased.Index)
	assert.Equal(t, int64(100), it.Purchased.Price)
	assert.Equal(t, int64(150), it.Counter)
	assert.Equal(t, []string{"bigCookie", "product0"}, page.clicks())
	assert.Zero(t, page.count("text:productPrice1"))
}

func TestIterateSkipsHigherSlotsAndNonNumericPrices(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "150 cookies",
		"productPrice0": "1,000",
		"productPrice1": "200",
		"productPrice2": "50",
		"productPrice3": "N/A",
	})

	it := newTestLoop(page, 4).Iterate(context.Background())

	require.NotNil(t, it.Purchased)
	assert.Equal(t, 2, it.Purchased.Index)
	assert.Equal(t, []string{"bigCookie", "product2"}, page.clicks())
	assert.Zero(t, page.count("click:product3"))
}

func TestIterateNeverBuysNonNumericSlot(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "150 cookies",
		"productPrice0": "1000",
		"productPrice1": "N/A",
	})

	it := newTestLoop(page, 2).Iterate(context.Background())

	assert.Nil(t, it.Purchased)
	assert.Equal(t, entities.SkipNone, it.Skipped)
	assert.Equal(t, []string{"bigCookie"}, page.clicks())
}

func TestIterateBuysAtMostOne(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "1,000,000 cookies",
		"productPrice0": "15",
		"productPrice1": "100",
		"productPrice2": "1,100",
	})

	it := newTestLoop(page, 3).Iterate(context.Background())

	require.NotNil(t, it.Purchased)
	assert.Equal(t, 0, it.Purchased.Index)
	assert.Equal(t, []string{"bigCookie", "product0"}, page.clicks())
}

func TestIteratePrimaryClickTimeoutSkipsEverything(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "150 cookies",
		"productPrice0": "100",
	})
	page.clickErrs["bigCookie"] = fmt.Errorf("#bigCookie: %w", entities.ErrLookupTimeout)

	it := newTestLoop(page, 1).Iterate(context.Background())

	assert.Equal(t, entities.SkipPrimaryClick, it.Skipped)
	assert.False(t, it.Clicked)
	assert.Equal(t, []string{"click:bigCookie"}, page.calls)
}

func TestIterateUnparsableCounterSkipsSlots(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "abc",
		"productPrice0": "100",
	})

	it := newTestLoop(page, 1).Iterate(context.Background())

	assert.Equal(t, entities.SkipCounterParse, it.Skipped)
	assert.True(t, it.Clicked)
	assert.Zero(t, page.count("text:productPrice0"))
}

func TestIterateMissingCounterSkipsSlots(t *testing.T) {
	page := newFakePage(map[string]string{"productPrice0": "100"})

	it := newTestLoop(page, 1).Iterate(context.Background())

	assert.Equal(t, entities.SkipCounterRead, it.Skipped)
	assert.Equal(t, 1, page.count("wait:cookies"))
	assert.Zero(t, page.count("text:productPrice0"))
}

func TestIterateZeroCounterBuysFreeSlot(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "0 cookies",
		"productPrice0": "15",
		"productPrice1": "0",
	})

	it := newTestLoop(page, 2).Iterate(context.Background())

	require.NotNil(t, it.Purchased)
	assert.Equal(t, 1, it.Purchased.Index)
}

func TestIterateAbsorbsSlotFailures(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "500 cookies",
		"productPrice1": "300",
		"productPrice2": "400",
	})
	page.clickErrs["product1"] = fmt.Errorf("#product1: %w", entities.ErrLookupTimeout)

	it := newTestLoop(page, 3).Iterate(context.Background())

	require.NotNil(t, it.Purchased)
	assert.Equal(t, 2, it.Purchased.Index)
	assert.Equal(t, []string{"bigCookie", "product1", "product2"}, page.clicks())
}

func TestIterateStaleExhaustedPurchaseEndsEvaluation(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "500 cookies",
		"productPrice0": "300",
		"productPrice1": "400",
	})
	page.clickErrs["product0"] = fmt.Errorf("#product0: %w", entities.ErrStaleElement)

	it := newTestLoop(page, 2).Iterate(context.Background())

	assert.Nil(t, it.Purchased)
	assert.Equal(t, 3, page.count("click:product0"))
	assert.Zero(t, page.count("text:productPrice1"))
}

func TestRunStopsAfterCancel(t *testing.T) {
	page := newFakePage(map[string]string{
		"cookies":       "10 cookies",
		"productPrice0": "100",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	primaryClicks := 0
	callsAtCancel := -1
	page.onAccess = func(call string) {
		if call == "click:bigCookie" {
			primaryClicks++
		}
		if primaryClicks == 3 && call == "text:cookies" && callsAtCancel < 0 {
			callsAtCancel = len(page.calls)
			cancel()
		}
	}

	loop := newTestLoop(page, 1)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	assert.Equal(t, 3, primaryClicks)
	// only the in-flight iteration finishes: its counter and one price read
	assert.Equal(t, []string{"text:cookies", "text:productPrice0"}, page.calls[callsAtCancel:])
	assert.Equal(t, 3, loop.Stats().Iterations)
	assert.Equal(t, 3, loop.Stats().Clicks)
	assert.Zero(t, loop.Stats().Purchases)
}

func TestRunReturnsImmediatelyWhenAlreadyCanceled(t *testing.T) {
	page := newFakePage(map[string]string{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, newTestLoop(page, 1).Run(ctx))
	assert.Empty(t, page.calls)
}

// slowPage holds every click for the full wait timeout unless ctx ends first
type slowPage struct {
	*fakePage
}

func (p *slowPage) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	p.record("click:" + key)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("#%s: %w", key, entities.ErrLookupTimeout)
	}
}

func TestRunStopsPromptlyDuringLongWait(t *testing.T) {
	page := &slowPage{fakePage: newFakePage(map[string]string{})}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	access := accessor.NewAccessor(page, accessor.Options{
		Attempts:    3,
		Pause:       time.Millisecond,
		WaitTimeout: 5 * time.Second,
	}, logger)
	loop := NewLoop(access, Options{SlotCount: 1, IdlePause: time.Millisecond}, logrus.NewEntry(logger))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	require.NoError(t, loop.Run(ctx))

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, page.count("click:bigCookie"))
}
