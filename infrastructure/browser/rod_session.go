package browser

import (
	"context"
	"fmt"
	"time"

	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

type rodSession struct {
	browser *rod.Browser
	page    *rod.Page
	logger  *logrus.Logger
}

// NewRodSession - connects rod to an already running browser
func NewRodSession(wsURL string, logger *logrus.Logger) (interfaces.Session, error) {
	browser := rod.New().ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	var page *rod.Page
	if len(pages) > 0 {
		page = pages.First()
	} else {
		page, err = browser.Timeout(30 * time.Second).Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	return &rodSession{
		browser: browser,
		page:    page,
		logger:  logger,
	}, nil
}

// Navigate - navigates to the specified URL and waits for the load event
func (s *rodSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)

	page := s.page.Context(ctx).Timeout(30 * time.Second)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// Text - single-shot read without waiting for the element
func (s *rodSession) Text(ctx context.Context, key string) (string, error) {
	has, el, err := s.page.Context(ctx).Has(idSelector(key))
	if err != nil {
		return "", classify(ctx, "read", key, err)
	}
	if !has {
		return "", fmt.Errorf("read %s: %w", key, entities.ErrElementNotFound)
	}

	text, err := el.Text()
	if err != nil {
		return "", classify(ctx, "read", key, err)
	}
	return text, nil
}

// WaitText - waits up to timeout for the element, then reads it
func (s *rodSession) WaitText(ctx context.Context, key string, timeout time.Duration) (string, error) {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(idSelector(key))
	if err != nil {
		return "", classify(ctx, "wait", key, err)
	}

	text, err := el.Text()
	if err != nil {
		return "", classify(ctx, "wait", key, err)
	}
	return text, nil
}

// WaitClickable - waits up to timeout for the element to be visible and enabled
func (s *rodSession) WaitClickable(ctx context.Context, key string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(idSelector(key))
	if err != nil {
		return classify(ctx, "wait clickable", key, err)
	}
	return classify(ctx, "wait clickable", key, waitReady(el))
}

// WaitClick - waits up to timeout for the element to be visible and enabled, then clicks it
func (s *rodSession) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(idSelector(key))
	if err != nil {
		return classify(ctx, "click", key, err)
	}
	return classify(ctx, "click", key, clickWhenReady(el))
}

// ClickText - clicks the first element whose text contains fragment
func (s *rodSession) ClickText(ctx context.Context, fragment string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.ElementX(textXPath(fragment))
	if err != nil {
		return classify(ctx, "click text", fragment, err)
	}
	return classify(ctx, "click text", fragment, clickWhenReady(el))
}

func waitReady(el *rod.Element) error {
	if err := el.WaitVisible(); err != nil {
		return err
	}
	return el.WaitEnabled()
}

func clickWhenReady(el *rod.Element) error {
	if err := waitReady(el); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Detach - leaves the browser and its page open; the websocket closes with the process
func (s *rodSession) Detach() error {
	s.logger.Debug("Detaching from browser, window stays open")
	return nil
}

var _ interfaces.Session = (*rodSession)(nil)
