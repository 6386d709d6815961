package page

import (
	"sync"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/application/service"
	"conduit-e2e/internal/domain/entity"
)

// Factory hands out page objects bound to one shared TestConfigService.
// It is owned by whoever constructs it, usually the test harness, and is safe
// for concurrent use by parallel tests.
type Factory struct {
	cfg    entity.Configuration
	logger output.LoggerPort

	once   sync.Once
	config *service.TestConfigService
}

func NewFactory(cfg entity.Configuration, logger output.LoggerPort) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// Config returns the shared TestConfigService, building it on first use.
func (f *Factory) Config() *service.TestConfigService {
	f.once.Do(func() {
		f.config = service.NewTestConfigService(f.cfg)
	})
	return f.config
}

func (f *Factory) LoginPage(session output.PagePort) *LoginPage {
	return NewLoginPage(session, f.Config(), f.logger)
}

func (f *Factory) RegistrationPage(session output.PagePort) *RegistrationPage {
	return NewRegistrationPage(session, f.Config(), f.logger)
}

func (f *Factory) Authentication(session output.PagePort) *service.AuthenticationService {
	return service.NewAuthenticationService(session, f.Config().Configuration(), f.logger.WithField("component", "auth"))
}

func (f *Factory) Validation(session output.PagePort) *service.ValidationService {
	return service.NewValidationService(session, f.logger.WithField("component", "validation"))
}
