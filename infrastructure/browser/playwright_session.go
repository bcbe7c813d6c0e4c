package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// settleTimeout bounds the read that follows a successful single-shot lookup
const settleTimeout = 250 * time.Millisecond

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	logger  *logrus.Logger
}

// NewPlaywrightSession - connects playwright to an already running browser
func NewPlaywrightSession(wsURL string, logger *logrus.Logger) (interfaces.Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.ConnectOverCDP(wsURL)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := firstPage(browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	return &playwrightSession{
		pw:      pw,
		browser: browser,
		page:    page,
		logger:  logger,
	}, nil
}

// firstPage - reuses the window the browser opened with
func firstPage(browser playwright.Browser) (playwright.Page, error) {
	contexts := browser.Contexts()
	if len(contexts) > 0 {
		if pages := contexts[0].Pages(); len(pages) > 0 {
			return pages[0], nil
		}
		page, err := contexts[0].NewPage()
		if err != nil {
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		return page, nil
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// classifyPlaywright maps playwright's own timeout first, then the common CDP messages
func classifyPlaywright(ctx context.Context, op, key string, err error) error {
	if err != nil && ctx.Err() == nil && errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s %s: %w: %w", op, key, entities.ErrLookupTimeout, err)
	}
	return classify(ctx, op, key, err)
}

// Navigate - navigates to the specified URL
func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Infof("Navigating to: %s", url)
	_, err := await(ctx, func() (playwright.Response, error) {
		return s.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Text - single-shot read; an element that vanishes between count and read is stale
func (s *playwrightSession) Text(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	locator := s.page.Locator(idSelector(key)).First()
	n, err := locator.Count()
	if err != nil {
		return "", classifyPlaywright(ctx, "read", key, err)
	}
	if n == 0 {
		return "", fmt.Errorf("read %s: %w", key, entities.ErrElementNotFound)
	}

	text, err := locator.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: ms(settleTimeout),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return "", fmt.Errorf("read %s: %w: %w", key, entities.ErrStaleElement, err)
		}
		return "", classifyPlaywright(ctx, "read", key, err)
	}
	return text, nil
}

// WaitText - waits for the element to be attached, then reads it
func (s *playwrightSession) WaitText(ctx context.Context, key string, timeout time.Duration) (string, error) {
	locator := s.page.Locator(idSelector(key)).First()

	text, err := await(ctx, func() (string, error) {
		err := locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: ms(timeout),
		})
		if err != nil {
			return "", err
		}
		return locator.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: ms(timeout),
		})
	})
	if err != nil {
		return "", classifyPlaywright(ctx, "wait", key, err)
	}
	return text, nil
}

// WaitClickable - runs the click actionability checks without clicking
func (s *playwrightSession) WaitClickable(ctx context.Context, key string, timeout time.Duration) error {
	return s.click(ctx, "wait clickable", key, s.page.Locator(idSelector(key)), timeout, true)
}

// WaitClick - clicks once the element is visible, enabled and stable
func (s *playwrightSession) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	return s.click(ctx, "click", key, s.page.Locator(idSelector(key)), timeout, false)
}

// ClickText - clicks the first element whose text contains fragment
func (s *playwrightSession) ClickText(ctx context.Context, fragment string, timeout time.Duration) error {
	return s.click(ctx, "click text", fragment, s.page.Locator("xpath="+textXPath(fragment)), timeout, false)
}

func (s *playwrightSession) click(ctx context.Context, op, key string, locator playwright.Locator, timeout time.Duration, trial bool) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, locator.First().Click(playwright.LocatorClickOptions{
			Timeout: ms(timeout),
			Trial:   playwright.Bool(trial),
		})
	})
	return classifyPlaywright(ctx, op, key, err)
}

// Detach - stops the playwright driver; the browser was connected over CDP
// and is left running
func (s *playwrightSession) Detach() error {
	if s.pw == nil {
		return nil
	}
	err := s.pw.Stop()
	s.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

var _ interfaces.Session = (*playwrightSession)(nil)
