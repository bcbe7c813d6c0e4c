package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const (
	chromeDriverPort = 9515
	pollInterval     = 100 * time.Millisecond
)

type seleniumSession struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver() (string, error) {
	if path := os.Getenv("BROWSER_DRIVER_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
	}
	if home, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(home, "bin", "chromedriver"))
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// seleniumCapabilities - chrome options for bin with a persistent profile.
// detach keeps the window open after chromedriver stops.
func seleniumCapabilities(bin, userDataDir string) selenium.Capabilities {
	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	caps[chrome.CapabilitiesKey] = map[string]interface{}{
		"binary": bin,
		"args": []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			fmt.Sprintf("--user-data-dir=%s", userDataDir),
		},
		"detach": true,
	}
	return caps
}

// NewSeleniumSession - starts chromedriver, which launches the browser at bin
func NewSeleniumSession(bin string, logger *logrus.Logger) (interfaces.Session, error) {
	driverPath, err := findChromeDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	userDataDir, err := getOrCreateUserDataDir()
	if err != nil {
		return nil, err
	}
	logger.Infof("Using user data directory: %s", userDataDir)

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	wd, err := selenium.NewRemote(seleniumCapabilities(bin, userDataDir), fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &seleniumSession{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *seleniumSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, s.wd.Get(url)
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// find - single lookup by id; nil element means not present
func (s *seleniumSession) find(key string) (selenium.WebElement, error) {
	els, err := s.wd.FindElements(selenium.ByID, key)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// Text - single-shot read without waiting for the element
func (s *seleniumSession) Text(ctx context.Context, key string) (string, error) {
	text, err := await(ctx, func() (string, error) {
		el, err := s.find(key)
		if err != nil {
			return "", err
		}
		if el == nil {
			return "", entities.ErrElementNotFound
		}
		return el.Text()
	})
	return text, classify(ctx, "read", key, err)
}

// WaitText - polls up to timeout for the element, then reads it
func (s *seleniumSession) WaitText(ctx context.Context, key string, timeout time.Duration) (string, error) {
	var el selenium.WebElement
	err := pollUntil(ctx, timeout, pollInterval, func() (bool, error) {
		found, err := await(ctx, func() (selenium.WebElement, error) { return s.find(key) })
		el = found
		return found != nil, err
	})
	if err != nil {
		return "", classify(ctx, "wait", key, err)
	}

	text, err := await(ctx, el.Text)
	return text, classify(ctx, "wait", key, err)
}

// clickable - single lookup; nil element means not displayed and enabled yet
func (s *seleniumSession) clickable(by, value string) (selenium.WebElement, error) {
	els, err := s.wd.FindElements(by, value)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	if shown, err := els[0].IsDisplayed(); err != nil || !shown {
		return nil, err
	}
	if enabled, err := els[0].IsEnabled(); err != nil || !enabled {
		return nil, err
	}
	return els[0], nil
}

// waitClickable - polls up to timeout until the element is displayed and enabled
func (s *seleniumSession) waitClickable(ctx context.Context, by, value string, timeout time.Duration) (selenium.WebElement, error) {
	var el selenium.WebElement
	err := pollUntil(ctx, timeout, pollInterval, func() (bool, error) {
		found, err := await(ctx, func() (selenium.WebElement, error) { return s.clickable(by, value) })
		el = found
		return found != nil, err
	})
	return el, err
}

// WaitClickable - waits up to timeout for the element to be displayed and enabled
func (s *seleniumSession) WaitClickable(ctx context.Context, key string, timeout time.Duration) error {
	_, err := s.waitClickable(ctx, selenium.ByID, key, timeout)
	return classify(ctx, "wait clickable", key, err)
}

// WaitClick - waits up to timeout for the element to be clickable, then clicks it
func (s *seleniumSession) WaitClick(ctx context.Context, key string, timeout time.Duration) error {
	el, err := s.waitClickable(ctx, selenium.ByID, key, timeout)
	if err != nil {
		return classify(ctx, "click", key, err)
	}
	_, err = await(ctx, func() (struct{}, error) { return struct{}{}, el.Click() })
	return classify(ctx, "click", key, err)
}

// ClickText - clicks the first element whose text contains fragment
func (s *seleniumSession) ClickText(ctx context.Context, fragment string, timeout time.Duration) error {
	el, err := s.waitClickable(ctx, selenium.ByXPATH, textXPath(fragment), timeout)
	if err != nil {
		return classify(ctx, "click text", fragment, err)
	}
	_, err = await(ctx, func() (struct{}, error) { return struct{}{}, el.Click() })
	return classify(ctx, "click text", fragment, err)
}

// Detach - stops chromedriver without quitting the session; the detached
// browser keeps running
func (s *seleniumSession) Detach() error {
	if s.service == nil {
		return nil
	}
	err := s.service.Stop()
	s.service = nil
	if err != nil {
		return fmt.Errorf("failed to stop chromedriver: %w", err)
	}
	return nil
}

var _ interfaces.Session = (*seleniumSession)(nil)
