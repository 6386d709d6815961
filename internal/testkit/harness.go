// Package testkit is the glue between `go test` and the page objects: one
// browser per test binary, one isolated session per test, and failure
// evidence written when a test fails.
package testkit

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"conduit-e2e/internal/application/page"
	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/application/service"
	"conduit-e2e/internal/di"
	"conduit-e2e/internal/infrastructure/env"
)

const (
	// SessionTimeout bounds a single test's browser work.
	SessionTimeout  = 2 * time.Minute
	artifactTimeout = 10 * time.Second
)

type Suite struct {
	*di.Container
}

// Setup builds the suite from the environment and the .env files at the
// module root. It is meant for TestMain.
func Setup(ctx context.Context) (*Suite, error) {
	c, err := di.NewContainer(ctx, di.Config{
		LogName: "e2e",
		Console: os.Getenv("E2E_CONSOLE_LOG") != "",
		EnvDir:  envDir("."),
	})
	if err != nil {
		return nil, err
	}
	return &Suite{Container: c}, nil
}

// envDir is the module root above wd, or wd itself outside a module.
func envDir(wd string) string {
	root, err := env.ModuleRoot(wd)
	if err != nil {
		return wd
	}
	return root
}

// Main runs m with a suite stored in *suite and closes it afterwards. It
// returns the exit code for os.Exit.
func Main(m *testing.M, suite **Suite) int {
	s, err := Setup(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e setup failed: %v\n", err)
		return 1
	}
	*suite = s
	code := m.Run()
	if err := s.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "e2e teardown: %v\n", err)
	}
	return code
}

type Session struct {
	Ctx   context.Context
	Page  output.PagePort
	Pages *page.Factory
}

// NewSession opens a fresh browser context for t and registers cleanup.
func (s *Suite) NewSession(t testing.TB) *Session {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), SessionTimeout)
	p, err := s.Browser.NewPage(ctx)
	if err != nil {
		cancel()
		t.Fatalf("failed to open browser session: %v", err)
	}
	log := s.Logger.WithField("test", t.Name())

	t.Cleanup(func() {
		defer cancel()
		if t.Failed() {
			s.saveEvidence(t, p, log)
		}
		if err := p.Close(); err != nil {
			log.Warn("session close failed", "error", err)
		}
	})

	log.Debug("session opened")
	return &Session{Ctx: ctx, Page: p, Pages: s.Pages}
}

func (s *Suite) saveEvidence(t testing.TB, p output.PagePort, log output.LoggerPort) {
	ctx, cancel := context.WithTimeout(context.Background(), artifactTimeout)
	defer cancel()

	if url, err := p.CurrentURL(ctx); err == nil {
		t.Logf("failed at %s", url)
	}
	if shot, err := p.Screenshot(ctx); err != nil {
		log.Warn("failure screenshot unavailable", "error", err)
	} else if path, err := s.Artifacts.SaveScreenshot(t.Name(), shot); err != nil {
		log.Warn("failure screenshot not saved", "error", err)
	} else {
		t.Logf("screenshot: %s", path)
	}
	if html, err := p.HTML(ctx); err == nil {
		if path, err := s.Artifacts.SaveHTML(t.Name(), html); err == nil {
			t.Logf("page html: %s", path)
		}
	}
}

func (s *Session) Registration() *page.RegistrationPage {
	return s.Pages.RegistrationPage(s.Page)
}

func (s *Session) Login() *page.LoginPage {
	return s.Pages.LoginPage(s.Page)
}

func (s *Session) Auth() *service.AuthenticationService {
	return s.Pages.Authentication(s.Page)
}

func (s *Session) Validation() *service.ValidationService {
	return s.Pages.Validation(s.Page)
}

func (s *Session) Config() *service.TestConfigService {
	return s.Pages.Config()
}
