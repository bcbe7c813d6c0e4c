package browser

import (
	"context"
	"fmt"
	"time"

	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

type chromedpSession struct {
	tab    context.Context
	logger *logrus.Logger

	// canceling either one closes the tab, so Detach leaves them alone
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewChromedpSession - attaches chromedp to an already running browser in a new tab
func NewChromedpSession(wsURL string, logger *logrus.Logger) (interfaces.Session, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), wsURL)
	tab, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	if err := chromedp.Run(tab); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &chromedpSession{
		tab:         tab,
		logger:      logger,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}, nil
}

// run executes actions in the tab, bounded by timeout (when positive) and by ctx
func (s *chromedpSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tab)
	defer cancel()

	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate - navigates to the specified URL
func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	if err := s.run(ctx, 30*time.Second, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Text - single-shot read evaluated in the page; a missing element yields null
func (s *chromedpSession) Text(ctx context.Context, key string) (string, error) {
	var text *string
	script := fmt.Sprintf(`(() => { const el = document.getElementById(%q); return el ? el.innerText : null; })()`, key)

	if err := s.run(ctx, 0, chromedp.Evaluate(script, &text)); err != nil {
		return "", classify(ctx, "read", key, err)
	}
	if text == nil {
		return "", fmt.Errorf("read %s: %w", key, entities.ErrElementNotFound)
	}
	return *text, nil
}

// WaitText - waits up to timeout for the element to be present, then reads it
func (s *chromedpSession) WaitText(ctx context.Context, key string, timeout time.Duration) (string, error) {
	var text string
	sel := idSelector(key)

	err := s.run(ctx, timeout,
		chromedp.WaitReady(sel, chromedp.ByQuery),
		chromedp.Text(sel, &text, chromedp.ByQuery, chromedp.NodeReady),
	)
	if err != nil {
		return "", classify(ctx, "wait", key, err)
	}
	return text, nil
}

// WaitClickable - waits up to timeout for the element to be visible and enabled
func (s *chromedpSession) WaitClickable(ctx context.Context, key string, timeout time.Duration) error {
	sel := idSelector(key)

	err := s.run(ctx, timeout,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.WaitEnabled(sel, chromedp.ByQuery),
	)
	return classify(ctx, "wait clickable", key, err)
}

// WaitClick - waits up to timeout for the element to be visible and enabled, then clicks it
func (s *chromedpSession) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	sel := idSelector(key)

	err := s.run(ctx, timeout,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.WaitEnabled(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
	)
	return classify(ctx, "click", key, err)
}

// ClickText - clicks the first element whose text contains fragment
func (s *chromedpSession) ClickText(ctx context.Context, fragment string, timeout time.Duration) error {
	err := s.run(ctx, timeout,
		chromedp.Click(textXPath(fragment), chromedp.BySearch, chromedp.NodeVisible),
	)
	return classify(ctx, "click text", fragment, err)
}

// Detach - keeps the tab open
func (s *chromedpSession) Detach() error {
	s.logger.Debug("Detaching from browser, tab stays open")
	return nil
}

var _ interfaces.Session = (*chromedpSession)(nil)
