package service

import (
	"fmt"
	"time"

	"conduit-e2e/internal/domain/entity"
)

const defaultPassword = "password123"

// TestConfigService supplies environment constants and synthetic test data.
// Generated users are derived from a millisecond timestamp only; two calls
// within the same millisecond produce the same user.
type TestConfigService struct {
	cfg entity.Configuration
	now func() time.Time
}

func NewTestConfigService(cfg entity.Configuration) *TestConfigService {
	return &TestConfigService{cfg: cfg.WithDefaults(), now: time.Now}
}

// WithClock replaces the timestamp source used by the New* generators.
func (s *TestConfigService) WithClock(now func() time.Time) *TestConfigService {
	return &TestConfigService{cfg: s.cfg, now: now}
}

func (s *TestConfigService) Configuration() entity.Configuration {
	return s.cfg
}

func (s *TestConfigService) BaseURL() string {
	return s.cfg.BaseURL
}

func (s *TestConfigService) DefaultTimeout() time.Duration {
	return s.cfg.DefaultTimeout
}

func (s *TestConfigService) URL(route string) string {
	return s.cfg.URL(route)
}

func (s *TestConfigService) GenerateTestUser(ts int64) entity.RegistrationData {
	username := fmt.Sprintf("testuser%d", ts)
	return entity.RegistrationData{
		Username: username,
		Email:    username + "@example.com",
		Password: defaultPassword,
	}
}

func (s *TestConfigService) GenerateInvalidEmailUser(ts int64) entity.RegistrationData {
	return entity.RegistrationData{
		Username: fmt.Sprintf("testuser%d", ts),
		Email:    fmt.Sprintf("invalid-email-%d", ts),
		Password: defaultPassword,
	}
}

func (s *TestConfigService) NewTestUser() entity.RegistrationData {
	return s.GenerateTestUser(s.now().UnixMilli())
}

func (s *TestConfigService) NewInvalidEmailUser() entity.RegistrationData {
	return s.GenerateInvalidEmailUser(s.now().UnixMilli())
}

func (s *TestConfigService) ValidLoginData() entity.LoginData {
	return entity.LoginData{Email: "test@example.com", Password: defaultPassword}
}

func (s *TestConfigService) InvalidLoginData() entity.LoginData {
	return entity.LoginData{Email: "nobody@example.com", Password: "wrong-password"}
}
