package browser

import (
	"context"
	"fmt"

	"autoclicker/domain/interfaces"
	"autoclicker/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// Open - starts the browser and attaches the configured driver to it.
// Selenium has chromedriver launch the browser; the CDP drivers attach to
// one started by the detached launcher.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.Session, error) {
	if cfg.Driver == config.DriverSelenium {
		logger.Infof("Using %s driver", cfg.Driver)
		return NewSeleniumSession(cfg.BrowserPath, logger)
	}

	wsURL, err := NewDetachedLauncher(cfg.BrowserPath, logger).Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	return NewSession(cfg.Driver, wsURL, logger)
}

// NewSession - attaches the configured CDP driver to the browser at wsURL
func NewSession(driver, wsURL string, logger *logrus.Logger) (interfaces.Session, error) {
	logger.Infof("Using %s driver", driver)

	switch driver {
	case config.DriverPlaywright:
		return NewPlaywrightSession(wsURL, logger)
	case config.DriverRod:
		return NewRodSession(wsURL, logger)
	case config.DriverChromedp:
		return NewChromedpSession(wsURL, logger)
	default:
		return nil, fmt.Errorf("unknown browser driver: %s", driver)
	}
}
