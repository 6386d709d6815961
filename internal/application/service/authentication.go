package service

import (
	"context"
	"fmt"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
)

const (
	RouteHome     = "#/"
	RouteLogin    = "#/login"
	RouteRegister = "#/register"
	RouteSettings = "#/settings"

	LinkHome       = "Home"
	LinkNewArticle = "New Article"
	LinkSettings   = "Settings"
	LinkSignIn     = "Sign in"
	LinkSignUp     = "Sign up"
	ButtonLogout   = "Or click here to logout."
)

// AuthenticationService asserts signed-in and signed-out UI state regardless
// of which page produced the session.
type AuthenticationService struct {
	page   output.PagePort
	cfg    entity.Configuration
	logger output.LoggerPort
}

func NewAuthenticationService(page output.PagePort, cfg entity.Configuration, logger output.LoggerPort) *AuthenticationService {
	return &AuthenticationService{
		page:   page,
		cfg:    cfg.WithDefaults(),
		logger: logger,
	}
}

func (a *AuthenticationService) VerifySuccessfulRegistration(ctx context.Context, username string) error {
	if err := a.verifyAuthenticated(ctx, username); err != nil {
		return fmt.Errorf("verify registration of %s: %w", username, err)
	}
	a.logger.Info("registration verified", "username", username)
	return nil
}

func (a *AuthenticationService) VerifySuccessfulLogin(ctx context.Context, username string) error {
	if err := a.verifyAuthenticated(ctx, username); err != nil {
		return fmt.Errorf("verify login of %s: %w", username, err)
	}
	a.logger.Info("login verified", "username", username)
	return nil
}

// Logout drives the settings page logout control and waits for the
// signed-out home page.
func (a *AuthenticationService) Logout(ctx context.Context) error {
	if err := a.link(LinkSettings).Click(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logout := a.element(entity.ByRole(entity.RoleButton, ButtonLogout), "logout button")
	if err := logout.ExpectVisible(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := logout.Click(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := a.VerifyLoggedOutState(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info("logged out")
	return nil
}

func (a *AuthenticationService) VerifyLoggedOutState(ctx context.Context) error {
	if err := a.expectRoot(ctx); err != nil {
		return err
	}
	for _, name := range []string{LinkSignIn, LinkSignUp} {
		if err := a.link(name).ExpectVisible(ctx); err != nil {
			return err
		}
	}
	return a.link(LinkSettings).ExpectHidden(ctx)
}

// VerifyLoggedInState reports whether the signed-in navigation is showing.
// Any failure reads as "not logged in".
func (a *AuthenticationService) VerifyLoggedInState(ctx context.Context) bool {
	return a.link(LinkSettings).IsVisible(ctx) && a.link(LinkNewArticle).IsVisible(ctx)
}

func (a *AuthenticationService) verifyAuthenticated(ctx context.Context, username string) error {
	if err := a.expectRoot(ctx); err != nil {
		return err
	}
	for _, name := range []string{LinkNewArticle, LinkSettings, username} {
		if err := a.link(name).ExpectVisible(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *AuthenticationService) expectRoot(ctx context.Context) error {
	root := a.cfg.URL(RouteHome)
	if err := a.page.WaitForURL(ctx, root, a.cfg.ExpectTimeout); err != nil {
		return &AssertionError{Expectation: "be " + root, Target: "page URL", Err: err}
	}
	return nil
}

func (a *AuthenticationService) link(name string) *FormElement {
	return a.element(entity.ByRole(entity.RoleLink, name), fmt.Sprintf("link %q", name))
}

func (a *AuthenticationService) element(sel entity.Selector, name string) *FormElement {
	return NewFormElement(a.page.Locate(sel), name, a.cfg.ExpectTimeout, a.logger)
}
