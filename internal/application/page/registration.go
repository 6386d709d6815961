package page

import (
	"context"
	"fmt"
	"strings"

	"conduit-e2e/internal/application/port/input"
	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/application/service"
	"conduit-e2e/internal/domain/entity"
)

var (
	_ input.PageObject        = (*RegistrationPage)(nil)
	_ input.FormInteraction   = (*RegistrationPage)(nil)
	_ input.NavigationCapable = (*RegistrationPage)(nil)
	_ input.Validatable       = (*RegistrationPage)(nil)
)

const (
	FieldUsername = "Username"
	FieldEmail    = "Email"
	FieldPassword = "Password"

	registrationTitle = "Sign up"
	loginLinkText     = "Have an account?"
)

var registrationFields = []string{FieldUsername, FieldEmail, FieldPassword}

type RegistrationPage struct {
	BasePage

	Heading      *service.FormElement
	Username     *service.FormElement
	Email        *service.FormElement
	Password     *service.FormElement
	SubmitButton *service.FormElement
	LoginLink    *service.FormElement
}

func NewRegistrationPage(session output.PagePort, config *service.TestConfigService, logger output.LoggerPort) *RegistrationPage {
	p := &RegistrationPage{BasePage: newBasePage(session, config, logger, "registration page", service.RouteRegister)}
	p.Heading = p.element(entity.Heading(1, registrationTitle), "registration heading")
	p.Username = p.element(entity.ByField(FieldUsername), "username field")
	p.Email = p.element(entity.ByField(FieldEmail), "email field")
	p.Password = p.element(entity.ByField(FieldPassword), "password field")
	p.SubmitButton = p.element(entity.ByRole(entity.RoleButton, registrationTitle), "sign up button")
	p.LoginLink = p.element(entity.ByRole(entity.RoleLink, loginLinkText), "sign in link")
	return p
}

func (p *RegistrationPage) criticalElements() []*service.FormElement {
	return []*service.FormElement{p.Heading, p.Username, p.Email, p.Password, p.SubmitButton}
}

func (p *RegistrationPage) fields() []*service.FormElement {
	return []*service.FormElement{p.Username, p.Email, p.Password}
}

func (p *RegistrationPage) NavigateToPage(ctx context.Context) error {
	return p.load(ctx, p.criticalElements())
}

func (p *RegistrationPage) IsPageLoaded(ctx context.Context) bool {
	return p.allVisible(ctx, p.criticalElements())
}

func (p *RegistrationPage) FillUsername(ctx context.Context, username string) error {
	return p.Username.Fill(ctx, username)
}

func (p *RegistrationPage) FillEmail(ctx context.Context, email string) error {
	return p.Email.Fill(ctx, email)
}

func (p *RegistrationPage) FillPassword(ctx context.Context, password string) error {
	return p.Password.Fill(ctx, password)
}

func (p *RegistrationPage) FillRegistrationForm(ctx context.Context, data entity.RegistrationData) error {
	if err := p.FillUsername(ctx, data.Username); err != nil {
		return err
	}
	if err := p.FillEmail(ctx, data.Email); err != nil {
		return err
	}
	return p.FillPassword(ctx, data.Password)
}

func (p *RegistrationPage) Submit(ctx context.Context) error {
	return p.SubmitButton.Click(ctx)
}

func (p *RegistrationPage) Register(ctx context.Context, data entity.RegistrationData) error {
	if err := p.FillRegistrationForm(ctx, data); err != nil {
		return err
	}
	p.logger.Info("submitting registration", "username", data.Username)
	return p.Submit(ctx)
}

func (p *RegistrationPage) ClearForm(ctx context.Context) error {
	for _, f := range p.fields() {
		if err := f.Fill(ctx, ""); err != nil {
			return err
		}
	}
	return nil
}

// IsFormValid reports whether the submit button is enabled, which is how the
// application signals that its client-side validation passed.
func (p *RegistrationPage) IsFormValid(ctx context.Context) bool {
	return p.SubmitButton.IsEnabled(ctx)
}

// VerifyFormValidationBehavior checks progressive enablement: the button stays
// disabled for the empty form and for every partially filled form, and is
// enabled once all three fields have values. It leaves the form filled.
func (p *RegistrationPage) VerifyFormValidationBehavior(ctx context.Context) error {
	user := p.config.NewTestUser()
	values := []string{user.Username, user.Email, user.Password}
	fields := p.fields()

	if err := p.ClearForm(ctx); err != nil {
		return err
	}
	if err := p.SubmitButton.ExpectDisabled(ctx); err != nil {
		return fmt.Errorf("empty form: %w", err)
	}

	all := 1<<len(fields) - 1
	for mask := 1; mask < all; mask++ {
		var filled []string
		for i, f := range fields {
			v := ""
			if mask&(1<<i) != 0 {
				v = values[i]
				filled = append(filled, registrationFields[i])
			}
			if err := f.Fill(ctx, v); err != nil {
				return err
			}
		}
		if err := p.SubmitButton.ExpectDisabled(ctx); err != nil {
			return fmt.Errorf("only %s filled: %w", strings.Join(filled, ", "), err)
		}
	}

	if err := p.ClearForm(ctx); err != nil {
		return err
	}
	for i, f := range fields {
		if err := f.Fill(ctx, values[i]); err != nil {
			return err
		}
		if i < len(fields)-1 {
			if err := p.SubmitButton.ExpectDisabled(ctx); err != nil {
				return fmt.Errorf("after filling %s: %w", registrationFields[i], err)
			}
			continue
		}
		if err := p.SubmitButton.ExpectEnabled(ctx); err != nil {
			return fmt.Errorf("all fields filled: %w", err)
		}
	}
	return nil
}

func (p *RegistrationPage) GoToLogin(ctx context.Context) error {
	if err := p.LoginLink.Click(ctx); err != nil {
		return service.WrapPageError(p.name, "open sign in page", err)
	}
	url := p.config.URL(service.RouteLogin)
	if err := p.session.WaitForURL(ctx, url, p.config.Configuration().ExpectTimeout); err != nil {
		return service.WrapPageError(p.name, "open sign in page", err)
	}
	return nil
}

func (p *RegistrationPage) ValidatePage(ctx context.Context) entity.ValidationResult {
	return p.validate(ctx, registrationFields, []string{service.LinkHome, service.LinkSignIn, service.LinkSignUp})
}
