package page

import (
	"context"
	"strings"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/application/service"
	"conduit-e2e/internal/domain/entity"
)

const errorMessagesCSS = `.error-messages li, .alert-danger, [role="alert"]`

// BasePage holds what every page object shares. Concrete pages embed it and
// supply their own critical elements; there is no loaded/unloaded flag, every
// check reads the live page.
type BasePage struct {
	session    output.PagePort
	config     *service.TestConfigService
	validation *service.ValidationService
	logger     output.LoggerPort
	name       string
	route      string
}

func newBasePage(session output.PagePort, config *service.TestConfigService, logger output.LoggerPort, name, route string) BasePage {
	log := logger.WithFields(map[string]any{"page": name, "route": route})
	return BasePage{
		session:    session,
		config:     config,
		validation: service.NewValidationService(session, log),
		logger:     log,
		name:       name,
		route:      route,
	}
}

func (b *BasePage) Route() string {
	return b.route
}

func (b *BasePage) Session() output.PagePort {
	return b.session
}

func (b *BasePage) Validation() *service.ValidationService {
	return b.validation
}

func (b *BasePage) CurrentURL(ctx context.Context) (string, error) {
	u, err := b.session.CurrentURL(ctx)
	if err != nil {
		return "", service.WrapPageError(b.name, "read current url", err)
	}
	return u, nil
}

func (b *BasePage) NavigateToHome(ctx context.Context) error {
	home := b.element(entity.ByRole(entity.RoleLink, service.LinkHome), "home link")
	return b.open(ctx, service.RouteHome, "home page", []*service.FormElement{home})
}

// CheckForErrorMessages returns the trimmed text of every rendered error, in
// document order. It returns an empty slice when there are none or the page
// cannot be read.
func (b *BasePage) CheckForErrorMessages(ctx context.Context) []string {
	texts, err := b.session.Locate(entity.ByCSS(errorMessagesCSS)).AllTexts(ctx)
	if err != nil {
		b.logger.Debug("error messages unavailable", "error", err)
		return []string{}
	}
	messages := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			messages = append(messages, t)
		}
	}
	return messages
}

// WaitForErrorMessages waits up to the expect timeout for the error list to
// render and returns its messages.
func (b *BasePage) WaitForErrorMessages(ctx context.Context) ([]string, error) {
	list := b.element(entity.ByCSS(errorMessagesCSS), "error messages").WithTimeout(b.config.Configuration().ExpectTimeout)
	if err := list.ExpectVisible(ctx); err != nil {
		return []string{}, err
	}
	return b.CheckForErrorMessages(ctx), nil
}

func (b *BasePage) element(sel entity.Selector, name string) *service.FormElement {
	return service.NewFormElement(b.session.Locate(sel), name, b.config.DefaultTimeout(), b.logger)
}

func (b *BasePage) load(ctx context.Context, critical []*service.FormElement) error {
	return b.open(ctx, b.route, b.name, critical)
}

func (b *BasePage) open(ctx context.Context, route, name string, critical []*service.FormElement) error {
	cfg := b.config.Configuration()
	url := cfg.URL(route)

	navCtx, cancel := context.WithTimeout(ctx, cfg.NavigationTimeout)
	defer cancel()
	if err := b.session.Navigate(navCtx, url); err != nil {
		b.logger.Error("navigation failed", "url", url, "error", err)
		return service.WrapPageError(b.name, "navigate to "+name, err)
	}
	if err := b.waitFor(ctx, critical); err != nil {
		b.logger.Error("page did not load", "url", url, "error", err)
		return service.WrapPageError(b.name, "load "+name, err)
	}
	b.logger.Debug("page loaded", "url", url)
	return nil
}

func (b *BasePage) waitFor(ctx context.Context, critical []*service.FormElement) error {
	for _, el := range critical {
		if err := el.ExpectVisible(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *BasePage) allVisible(ctx context.Context, critical []*service.FormElement) bool {
	for _, el := range critical {
		if !el.IsVisible(ctx) {
			return false
		}
	}
	return true
}

func (b *BasePage) validate(ctx context.Context, fields, links []string) entity.ValidationResult {
	return b.validation.ValidateFormStructure(ctx, fields).
		Merge(b.validation.ValidateNavigationStructure(ctx, links)).
		Merge(b.validation.ValidateAccessibility(ctx))
}
