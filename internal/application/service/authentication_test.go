package service

import (
	"context"
	"testing"

	"conduit-e2e/internal/domain/entity"
	"conduit-e2e/internal/infrastructure/logger"
	"conduit-e2e/internal/testkit/fakebrowser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://conduit.test/"

func link(name string) entity.Selector {
	return entity.ByRole(entity.RoleLink, name)
}

// signedIn renders the authenticated navigation for username and wires the
// logout flow the way the application behaves.
func signedIn(page *fakebrowser.Page, username string) {
	page.SetURL(testBaseURL + "#/")
	for _, name := range []string{LinkHome, LinkNewArticle, LinkSettings, username} {
		page.Show(link(name))
	}
	page.Element(link(LinkSettings)).OnClick = func() {
		page.SetURL(testBaseURL + "#/settings")
		page.Show(entity.ByRole(entity.RoleButton, ButtonLogout)).OnClick = func() {
			for _, name := range []string{LinkNewArticle, LinkSettings, username} {
				page.Element(link(name)).Visible = false
			}
			page.Show(link(LinkSignIn))
			page.Show(link(LinkSignUp))
			page.SetURL(testBaseURL + "#/")
		}
	}
}

func newAuth(page *fakebrowser.Page) *AuthenticationService {
	return NewAuthenticationService(page, entity.Configuration{BaseURL: testBaseURL}, logger.NewNop())
}

func TestVerifySuccessfulRegistration(t *testing.T) {
	page := fakebrowser.NewPage()
	signedIn(page, "testuser1700000000000")

	err := newAuth(page).VerifySuccessfulRegistration(context.Background(), "testuser1700000000000")

	assert.NoError(t, err)
}

func TestVerifySuccessfulRegistration_WrongURL(t *testing.T) {
	page := fakebrowser.NewPage()
	signedIn(page, "jake")
	page.SetURL(testBaseURL + "#/register")

	err := newAuth(page).VerifySuccessfulRegistration(context.Background(), "jake")

	var assertErr *AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.Equal(t, "page URL", assertErr.Target)
}

func TestVerifySuccessfulLogin_MissingUserLink(t *testing.T) {
	page := fakebrowser.NewPage()
	signedIn(page, "jake")

	err := newAuth(page).VerifySuccessfulLogin(context.Background(), "someone-else")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `link "someone-else"`)
}

func TestLogout(t *testing.T) {
	page := fakebrowser.NewPage()
	signedIn(page, "jake")
	auth := newAuth(page)
	ctx := context.Background()

	require.True(t, auth.VerifyLoggedInState(ctx))
	require.NoError(t, auth.Logout(ctx))

	assert.False(t, auth.VerifyLoggedInState(ctx))
	assert.NoError(t, auth.VerifyLoggedOutState(ctx))
}

func TestVerifyLoggedInState_NeverFails(t *testing.T) {
	page := fakebrowser.NewPage()

	assert.False(t, newAuth(page).VerifyLoggedInState(context.Background()))
}
