package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

// BrowserAdapter owns one Chromium process. Every NewPage call opens an
// incognito context so tests never share cookies or local storage.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      BrowserConfig
	logger   output.LoggerPort

	mu     sync.Mutex
	closed bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	NoSandbox  bool
	DevTools   bool
	Trace      bool
	// Bin overrides the browser binary; empty lets the launcher find or
	// download one.
	Bin            string
	ViewportWidth  int
	ViewportHeight int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 720,
	}
}

func ConfigFromProfile(p entity.BrowserProfile) BrowserConfig {
	cfg := DefaultConfig()
	cfg.Headless = p.Headless
	cfg.SlowMotion = time.Duration(p.SlowMotionMS) * time.Millisecond
	cfg.NoSandbox = p.NoSandbox
	if p.ViewportWidth > 0 && p.ViewportHeight > 0 {
		cfg.ViewportWidth = p.ViewportWidth
		cfg.ViewportHeight = p.ViewportHeight
	}
	return cfg
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(cfg.Trace).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger.Info("browser launched", "engine", "rod", "headless", cfg.Headless, "control_url", url)

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (b *BrowserAdapter) Name() string {
	return string(entity.EngineRod)
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("browser is closed")
	}

	session, err := b.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := session.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	// Drop the creation context so later calls are bound only to their own.
	page = page.Context(context.Background())

	if b.cfg.ViewportWidth > 0 && b.cfg.ViewportHeight > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             b.cfg.ViewportWidth,
			Height:            b.cfg.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			_ = page.Close()
			_ = session.Close()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
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

	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	b.logger.Info("browser closed", "engine", "rod")
	return err
}
