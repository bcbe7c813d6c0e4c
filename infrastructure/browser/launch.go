package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"autoclicker/domain/interfaces"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/sirupsen/logrus"
)

const profileDir = ".autoclicker"

type detachedLauncher struct {
	bin    string
	logger *logrus.Logger
}

// NewDetachedLauncher - creates a launcher for the browser binary at bin.
// The launched browser is not tied to this process and keeps running after exit.
func NewDetachedLauncher(bin string, logger *logrus.Logger) interfaces.Launcher {
	return &detachedLauncher{
		bin:    bin,
		logger: logger,
	}
}

// getOrCreateUserDataDir - gets or creates the profile directory so game
// progress saved by the page survives between runs
func getOrCreateUserDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	userDataDir := filepath.Join(homeDir, profileDir, "browser_profile")
	if err := os.MkdirAll(userDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user data directory: %w", err)
	}

	return userDataDir, nil
}

// Launch - starts the browser and returns its DevTools websocket URL
func (l *detachedLauncher) Launch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	userDataDir, err := getOrCreateUserDataDir()
	if err != nil {
		return "", err
	}
	l.logger.Infof("Using user data directory: %s", userDataDir)

	lc := launcher.New().
		Bin(l.bin).
		Headless(false).
		Leakless(false).
		UserDataDir(userDataDir).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")

	wsURL, err := lc.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser %s: %w", l.bin, err)
	}

	l.logger.Infof("Browser started at %s", wsURL)
	return wsURL, nil
}
