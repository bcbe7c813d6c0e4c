package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"autoclicker/domain/entities"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
	DriverChromedp   = "chromedp"
	DriverSelenium   = "selenium"
)

const DefaultGameURL = "https://orteil.dashnet.org/cookieclicker/"

// Config holds everything read from the environment
type Config struct {
	BrowserPath string
	Driver      string
	GameURL     string
	LogLevel    logrus.Level
	WaitTimeout time.Duration
	SlotCount   int
}

// defaultBrowserPath - Brave install location for the current OS
func defaultBrowserPath(goos string) string {
	switch goos {
	case "windows":
		return `C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`
	case "darwin":
		return "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser"
	default:
		return "/usr/bin/brave-browser"
	}
}

// Load - reads .env (optional) and the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	return FromEnv(os.Getenv)
}

// FromEnv - builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BrowserPath: getenv("BRAVE_PATH"),
		Driver:      strings.ToLower(strings.TrimSpace(getenv("BROWSER_DRIVER"))),
		GameURL:     getenv("GAME_URL"),
		LogLevel:    logrus.InfoLevel,
		WaitTimeout: 30 * time.Second,
		SlotCount:   entities.DefaultSlotCount,
	}

	if cfg.BrowserPath == "" {
		cfg.BrowserPath = defaultBrowserPath(runtime.GOOS)
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverPlaywright
	}
	if cfg.GameURL == "" {
		cfg.GameURL = DefaultGameURL
	}

	switch cfg.Driver {
	case DriverPlaywright, DriverRod, DriverChromedp, DriverSelenium:
	default:
		return nil, fmt.Errorf("unknown BROWSER_DRIVER %q (want %s, %s, %s or %s)", cfg.Driver, DriverPlaywright, DriverRod, DriverChromedp, DriverSelenium)
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if v := getenv("WAIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid WAIT_TIMEOUT %q: want a positive duration such as 30s", v)
		}
		cfg.WaitTimeout = d
	}

	if v := getenv("SLOT_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SLOT_COUNT %q: want a positive integer", v)
		}
		cfg.SlotCount = n
	}

	return cfg, nil
}

// CheckBrowser - verifies the browser executable exists
func (c *Config) CheckBrowser() error {
	info, err := os.Stat(c.BrowserPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w at: %s\nInstall Brave or set the BRAVE_PATH environment variable (or .env entry) to the browser executable", entities.ErrBrowserNotFound, c.BrowserPath)
	}
	return nil
}
