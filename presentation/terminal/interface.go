package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"autoclicker/application/accessor"
	"autoclicker/application/clicker"
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"autoclicker/infrastructure/browser"
	"autoclicker/infrastructure/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LanguagePromptTimeout bounds the look for the language prompt, which a
// returning profile never shows
const LanguagePromptTimeout = 5 * time.Second

type TerminalInterface struct {
	cfg     *config.Config
	session interfaces.Session
	loop    *clicker.Loop
	logger  *logrus.Logger
	run     *logrus.Entry
}

// NewTerminalInterface - validates configuration, launches the browser and
// wires the accessor and poll loop to it
func NewTerminalInterface(ctx context.Context) (*TerminalInterface, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Checked before any browser process starts
	if err := cfg.CheckBrowser(); err != nil {
		return nil, err
	}

	// Setup logger
	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.Infof("Using browser at: %s", cfg.BrowserPath)

	session, err := browser.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to browser: %w", err)
	}

	return newTerminalInterface(cfg, session, logger), nil
}

func newTerminalInterface(cfg *config.Config, session interfaces.Session, logger *logrus.Logger) *TerminalInterface {
	run := logger.WithField("run", uuid.NewString())

	access := accessor.NewAccessor(session, accessor.Options{
		Attempts:    accessor.DefaultAttempts,
		Pause:       accessor.DefaultPause,
		WaitTimeout: cfg.WaitTimeout,
	}, logger)

	loop := clicker.NewLoop(access, clicker.Options{
		SlotCount: cfg.SlotCount,
		IdlePause: clicker.DefaultIdlePause,
	}, run)

	return &TerminalInterface{
		cfg:     cfg,
		session: session,
		loop:    loop,
		logger:  logger,
		run:     run,
	}
}

// Run - opens the game, picks the language and clicks until ctx is canceled
func (t *TerminalInterface) Run(ctx context.Context) error {
	if err := t.session.Navigate(ctx, t.cfg.GameURL); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	fmt.Println("Auto-clicker running. Press Ctrl+C to stop (the browser stays open).")

	// The language prompt only shows on a fresh profile
	if err := t.session.ClickText(ctx, entities.LanguageFragment, min(t.cfg.WaitTimeout, LanguagePromptTimeout)); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		t.run.Warnf("Language selection skipped: %v", err)
	}

	// Language choice re-renders the page; wait for the primary target to be clickable again
	if err := t.session.WaitClickable(ctx, entities.PrimaryKey, t.cfg.WaitTimeout); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		t.run.Warnf("%s not ready yet: %v", entities.PrimaryKey, err)
	}

	return t.loop.Run(ctx)
}

// Close - detaches from the browser without closing it
func (t *TerminalInterface) Close() error {
	if err := t.session.Detach(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Stopped. Browser window left open.")
	return nil
}

// IsConfigError reports whether err must be fixed by the user before a retry
func IsConfigError(err error) bool {
	return errors.Is(err, entities.ErrBrowserNotFound)
}
