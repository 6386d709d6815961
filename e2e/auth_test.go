//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogout_AfterRegistration(t *testing.T) {
	s := suite.NewSession(t)
	reg := s.Registration()
	user := s.Config().NewTestUser()

	require.NoError(t, reg.NavigateToPage(s.Ctx))
	require.NoError(t, reg.Register(s.Ctx, user))
	require.NoError(t, s.Auth().VerifySuccessfulRegistration(s.Ctx, user.Username))

	require.NoError(t, s.Auth().Logout(s.Ctx))

	require.NoError(t, s.Auth().VerifyLoggedOutState(s.Ctx))
	assert.False(t, s.Auth().VerifyLoggedInState(s.Ctx))
}

func TestLoggedOutByDefault(t *testing.T) {
	t.Parallel()
	s := suite.NewSession(t)
	login := s.Login()

	require.NoError(t, login.NavigateToHome(s.Ctx))

	require.NoError(t, s.Auth().VerifyLoggedOutState(s.Ctx))
	assert.False(t, s.Auth().VerifyLoggedInState(s.Ctx))
}
