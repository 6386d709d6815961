package di

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"

	"conduit-e2e/internal/application/page"
	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
	"conduit-e2e/internal/infrastructure/artifact"
	"conduit-e2e/internal/infrastructure/browser/playwright"
	"conduit-e2e/internal/infrastructure/browser/rod"
	"conduit-e2e/internal/infrastructure/demoapp"
	"conduit-e2e/internal/infrastructure/env"
	"conduit-e2e/internal/infrastructure/logger"
	"conduit-e2e/internal/infrastructure/profiles"
)

// Container wires one suite run: configuration, logging, the browser engine
// chosen by profile, the page factory, and the demo app when no BASE_URL is
// set.
type Container struct {
	Env       *env.EnvService
	Logger    output.LoggerPort
	Config    entity.Configuration
	Profile   entity.BrowserProfile
	Browser   output.BrowserPort
	Pages     *page.Factory
	Artifacts *artifact.Writer
	// Demo is true when the suite runs against the bundled demo app, whose
	// seeded account makes ValidLoginData usable.
	Demo bool

	stopDemo func()
}

type Config struct {
	// LogName names the log file for this run.
	LogName string
	// Profile overrides E2E_PROFILE when set.
	Profile string
	Console bool
	// EnvDir holds the .env files. Relative log, artifact and profile paths
	// resolve against it. Empty means the working directory.
	EnvDir string
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	dir := cfg.EnvDir
	if dir == "" {
		dir = "."
	}
	envSvc := env.NewEnvServiceIn(dir)

	logCfg := logger.DefaultConfig(cfg.LogName)
	logCfg.Dir = under(dir, envSvc.GetWithDefault(env.KeyLogDir, logCfg.Dir))
	logCfg.Level = envSvc.GetWithDefault(env.KeyLogLevel, logCfg.Level)
	logCfg.Console = cfg.Console
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{
		Env:       envSvc,
		Logger:    log,
		Config:    env.Configuration(envSvc),
		Artifacts: artifact.NewWriter(under(dir, envSvc.GetWithDefault(env.KeyArtifactsDir, "artifacts"))),
	}

	set, err := profiles.Load(under(dir, envSvc.Get(env.KeyProfilesFile)))
	if err != nil {
		c.Close()
		return nil, err
	}
	name := cfg.Profile
	if name == "" {
		name = envSvc.Get(env.KeyProfile)
	}
	if c.Profile, err = set.Get(name); err != nil {
		c.Close()
		return nil, err
	}

	if c.Config.BaseURL == "" {
		url, stop, err := StartDemo(log.WithField("component", "demoapp"))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to start demo app: %w", err)
		}
		c.Config.BaseURL = url
		c.stopDemo = stop
		c.Demo = true
	}
	c.Config = c.Config.WithDefaults()

	if c.Browser, err = NewBrowser(ctx, c.Profile, log); err != nil {
		c.Close()
		return nil, err
	}

	c.Pages = page.NewFactory(c.Config, log)
	log.Info("suite ready", "base_url", c.Config.BaseURL, "profile", c.Profile.Name, "engine", c.Browser.Name())
	return c, nil
}

func under(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// NewBrowser launches the engine named by the profile.
func NewBrowser(ctx context.Context, p entity.BrowserProfile, log output.LoggerPort) (output.BrowserPort, error) {
	switch p.Engine {
	case entity.EngineRod, "":
		b, err := rod.NewBrowserAdapter(ctx, rod.ConfigFromProfile(p), log.WithField("engine", "rod"))
		if err != nil {
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		return b, nil
	case entity.EnginePlaywright:
		b, err := playwright.NewBrowserAdapter(ctx, playwright.ConfigFromProfile(p), log.WithField("engine", "playwright"))
		if err != nil {
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", p.Engine)
	}
}

// StartDemo serves the bundled demo app on an ephemeral loopback port and
// returns its base URL and a stop function.
func StartDemo(log output.LoggerPort) (string, func(), error) {
	srv, err := demoapp.New(demoapp.Options{Seed: true}, log)
	if err != nil {
		return "", nil, err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	stop := func() {
		cancel()
		if err := <-done; err != nil {
			log.Warn("demo app shutdown", "error", err)
		}
	}
	return "http://" + ln.Addr().String() + "/", stop, nil
}

func (c *Container) Close() error {
	var errs []error
	if c.Browser != nil {
		errs = append(errs, c.Browser.Close())
	}
	if c.stopDemo != nil {
		c.stopDemo()
	}
	if c.Logger != nil {
		errs = append(errs, c.Logger.Close())
	}
	return errors.Join(errs...)
}
