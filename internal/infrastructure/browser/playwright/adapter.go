// Package playwright runs the suite on Playwright's Chromium, Firefox or
// WebKit builds. It needs the driver and browsers installed once with
// `go run github.com/playwright-community/playwright-go/cmd/playwright install`.
package playwright

import (
	"context"
	"fmt"
	"sync"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	pw "github.com/playwright-community/playwright-go"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserConfig struct {
	// Browser is chromium, firefox or webkit.
	Browser        string
	Headless       bool
	SlowMotionMS   int
	ViewportWidth  int
	ViewportHeight int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Browser:        "chromium",
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 720,
	}
}

func ConfigFromProfile(p entity.BrowserProfile) BrowserConfig {
	cfg := DefaultConfig()
	if p.Browser != "" {
		cfg.Browser = p.Browser
	}
	cfg.Headless = p.Headless
	cfg.SlowMotionMS = p.SlowMotionMS
	if p.ViewportWidth > 0 && p.ViewportHeight > 0 {
		cfg.ViewportWidth = p.ViewportWidth
		cfg.ViewportHeight = p.ViewportHeight
	}
	return cfg
}

type BrowserAdapter struct {
	pw      *pw.Playwright
	browser pw.Browser
	cfg     BrowserConfig
	logger  output.LoggerPort

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var bt pw.BrowserType
	switch cfg.Browser {
	case "", "chromium":
		bt = runner.Chromium
	case "firefox":
		bt = runner.Firefox
	case "webkit":
		bt = runner.WebKit
	default:
		_ = runner.Stop()
		return nil, fmt.Errorf("unknown browser %q", cfg.Browser)
	}

	opts := pw.BrowserTypeLaunchOptions{Headless: pw.Bool(cfg.Headless)}
	if cfg.SlowMotionMS > 0 {
		opts.SlowMo = pw.Float(float64(cfg.SlowMotionMS))
	}
	browser, err := bt.Launch(opts)
	if err != nil {
		_ = runner.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	logger.Info("browser launched", "engine", "playwright", "browser", cfg.Browser, "headless", cfg.Headless)

	return &BrowserAdapter{pw: runner, browser: browser, cfg: cfg, logger: logger}, nil
}

func (b *BrowserAdapter) Name() string {
	return string(entity.EnginePlaywright) + "/" + b.cfg.Browser
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("browser is closed")
	}

	opts := pw.BrowserNewContextOptions{}
	if b.cfg.ViewportWidth > 0 && b.cfg.ViewportHeight > 0 {
		opts.Viewport = &pw.Size{Width: b.cfg.ViewportWidth, Height: b.cfg.ViewportHeight}
	}
	session, err := b.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := session.NewPage()
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return newPage(page, session, b.logger), nil
}

func (b *BrowserAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	err := b.browser.Close()
	if serr := b.pw.Stop(); err == nil {
		err = serr
	}
	b.logger.Info("browser closed", "engine", "playwright")
	return err
}
