package page

import (
	"context"

	"conduit-e2e/internal/application/port/input"
	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/application/service"
	"conduit-e2e/internal/domain/entity"
)

var (
	_ input.PageObject        = (*LoginPage)(nil)
	_ input.FormInteraction   = (*LoginPage)(nil)
	_ input.NavigationCapable = (*LoginPage)(nil)
	_ input.Validatable       = (*LoginPage)(nil)
)

const (
	loginTitle       = "Sign in"
	registerLinkText = "Need an account?"
)

type LoginPage struct {
	BasePage

	Heading      *service.FormElement
	Email        *service.FormElement
	Password     *service.FormElement
	SubmitButton *service.FormElement
	RegisterLink *service.FormElement
}

func NewLoginPage(session output.PagePort, config *service.TestConfigService, logger output.LoggerPort) *LoginPage {
	p := &LoginPage{BasePage: newBasePage(session, config, logger, "login page", service.RouteLogin)}
	p.Heading = p.element(entity.Heading(1, loginTitle), "login heading")
	p.Email = p.element(entity.ByCSS(`input[type="email"]`), "email field")
	p.Password = p.element(entity.ByCSS(`input[type="password"]`), "password field")
	p.SubmitButton = p.element(entity.ByRole(entity.RoleButton, loginTitle), "sign in button")
	p.RegisterLink = p.element(entity.ByRole(entity.RoleLink, registerLinkText), "sign up link")
	return p
}

func (p *LoginPage) criticalElements() []*service.FormElement {
	return []*service.FormElement{p.Heading, p.Email, p.Password, p.SubmitButton}
}

func (p *LoginPage) NavigateToPage(ctx context.Context) error {
	return p.load(ctx, p.criticalElements())
}

func (p *LoginPage) IsPageLoaded(ctx context.Context) bool {
	return p.allVisible(ctx, p.criticalElements())
}

func (p *LoginPage) FillEmail(ctx context.Context, email string) error {
	return p.Email.Fill(ctx, email)
}

func (p *LoginPage) FillPassword(ctx context.Context, password string) error {
	return p.Password.Fill(ctx, password)
}

func (p *LoginPage) FillLoginForm(ctx context.Context, data entity.LoginData) error {
	if err := p.FillEmail(ctx, data.Email); err != nil {
		return err
	}
	return p.FillPassword(ctx, data.Password)
}

func (p *LoginPage) Submit(ctx context.Context) error {
	return p.SubmitButton.Click(ctx)
}

func (p *LoginPage) Login(ctx context.Context, data entity.LoginData) error {
	if err := p.FillLoginForm(ctx, data); err != nil {
		return err
	}
	p.logger.Info("submitting login", "email", data.Email)
	return p.Submit(ctx)
}

func (p *LoginPage) ClearForm(ctx context.Context) error {
	if err := p.Email.Fill(ctx, ""); err != nil {
		return err
	}
	return p.Password.Fill(ctx, "")
}

// IsFormValid requires both fields to hold a value in addition to an enabled
// submit button. This is stricter than RegistrationPage.IsFormValid.
func (p *LoginPage) IsFormValid(ctx context.Context) bool {
	for _, f := range []*service.FormElement{p.Email, p.Password} {
		v, err := f.Value(ctx)
		if err != nil || v == "" {
			return false
		}
	}
	return p.SubmitButton.IsEnabled(ctx)
}

func (p *LoginPage) GoToRegistration(ctx context.Context) error {
	if err := p.RegisterLink.Click(ctx); err != nil {
		return service.WrapPageError(p.name, "open sign up page", err)
	}
	url := p.config.URL(service.RouteRegister)
	if err := p.session.WaitForURL(ctx, url, p.config.Configuration().ExpectTimeout); err != nil {
		return service.WrapPageError(p.name, "open sign up page", err)
	}
	return nil
}

func (p *LoginPage) ValidatePage(ctx context.Context) entity.ValidationResult {
	return p.validate(ctx, []string{FieldEmail, FieldPassword}, []string{service.LinkHome, service.LinkSignIn, service.LinkSignUp})
}
