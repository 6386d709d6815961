//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_EmptyForm(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	assert.False(t, login.IsFormValid(s.Ctx))
	assert.NoError(t, login.SubmitButton.ExpectDisabled(s.Ctx))
}

func TestLogin_EmailOnly(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	require.NoError(t, login.FillEmail(s.Ctx, s.Config().ValidLoginData().Email))

	assert.False(t, login.IsFormValid(s.Ctx))
	assert.True(t, login.SubmitButton.IsDisabled(s.Ctx))
}

func TestLogin_BothFieldsEnableSubmit(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	require.NoError(t, login.FillLoginForm(s.Ctx, s.Config().ValidLoginData()))
	require.NoError(t, login.SubmitButton.ExpectEnabled(s.Ctx))
	assert.True(t, login.IsFormValid(s.Ctx))

	require.NoError(t, login.ClearForm(s.Ctx))
	assert.False(t, login.IsFormValid(s.Ctx))
}

func TestLogin_ValidCredentials(t *testing.T) {
	if !suite.Demo {
		t.Skip("seeded account only exists on the demo app")
	}
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	require.NoError(t, login.Login(s.Ctx, s.Config().ValidLoginData()))

	require.NoError(t, s.Auth().VerifySuccessfulLogin(s.Ctx, "testuser"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	require.NoError(t, login.Login(s.Ctx, s.Config().InvalidLoginData()))

	messages, err := login.WaitForErrorMessages(s.Ctx)
	require.NoError(t, err)
	assert.Contains(t, messages, "email or password is invalid")
	assert.False(t, s.Auth().VerifyLoggedInState(s.Ctx))
}

func TestLogin_LinkToRegistration(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()
	require.NoError(t, login.NavigateToPage(s.Ctx))

	require.NoError(t, login.GoToRegistration(s.Ctx))
	assert.True(t, s.Registration().IsPageLoaded(s.Ctx))
}
