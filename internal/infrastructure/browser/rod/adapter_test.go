package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"
	"conduit-e2e/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/"
}

func newTestPage(t *testing.T, body string) (output.PagePort, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("launches a browser")
	}
	ctx := context.Background()

	adapter, err := NewBrowserAdapter(ctx, DefaultConfig(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	page, err := adapter.NewPage(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })

	url := serveHTML(t, body)
	require.NoError(t, page.Navigate(ctx, url))
	return page, url
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Zero(t, cfg.SlowMotion)
	assert.False(t, cfg.NoSandbox)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 720, cfg.ViewportHeight)
}

func TestConfigFromProfile(t *testing.T) {
	cfg := ConfigFromProfile(entity.BrowserProfile{
		Name:           "chromium-headed",
		Engine:         entity.EngineRod,
		Headless:       false,
		SlowMotionMS:   250,
		ViewportWidth:  1440,
		ViewportHeight: 900,
		NoSandbox:      true,
	})

	assert.False(t, cfg.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMotion)
	assert.True(t, cfg.NoSandbox)
	assert.Equal(t, 1440, cfg.ViewportWidth)
	assert.Equal(t, 900, cfg.ViewportHeight)
}

func TestConfigFromProfile_KeepsDefaultViewport(t *testing.T) {
	cfg := ConfigFromProfile(entity.BrowserProfile{Headless: true, ViewportWidth: 800})

	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, 720, cfg.ViewportHeight)
}

func TestBrowserAdapter_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	adapter, err := NewBrowserAdapter(context.Background(), DefaultConfig(), logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "rod", adapter.Name())

	require.NoError(t, adapter.Close())
	assert.NoError(t, adapter.Close(), "second close is a no-op")

	_, err = adapter.NewPage(context.Background())
	assert.Error(t, err)
}

func TestPage_NavigateAndURL(t *testing.T) {
	page, url := newTestPage(t, BasicHTML)
	ctx := context.Background()

	current, err := page.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, url, current)

	html, err := page.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "Hello World")
}

func TestPage_WaitForURL_Timeout(t *testing.T) {
	page, _ := newTestPage(t, BasicHTML)

	err := page.WaitForURL(context.Background(), "http://elsewhere.test/", 200*time.Millisecond)

	assert.ErrorIs(t, err, output.ErrTimeout)
}

func TestPage_Screenshot(t *testing.T) {
	page, _ := newTestPage(t, BasicHTML)

	shot, err := page.Screenshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.NotEmpty(t, shot.Data)
	assert.Equal(t, 1280, shot.Width)
	assert.Equal(t, 720, shot.Height)
}

func TestLocator_FormFlow(t *testing.T) {
	page, url := newTestPage(t, FormHTML)
	ctx := context.Background()
	timeout := 2 * time.Second

	submit := page.Locate(entity.ByRole(entity.RoleButton, "Sign up"))
	enabled, err := submit.IsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, page.Locate(entity.ByField("Username")).Fill(ctx, "jake", timeout))
	require.NoError(t, page.Locate(entity.ByField("Email")).Fill(ctx, "jake@jake.jake", timeout))
	require.NoError(t, submit.WaitFor(ctx, entity.StateDisabled, timeout))

	password := page.Locate(entity.ByField("Password"))
	require.NoError(t, password.Fill(ctx, "jakejake", timeout))
	require.NoError(t, submit.WaitFor(ctx, entity.StateEnabled, timeout))

	value, err := password.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jakejake", value)

	require.NoError(t, password.Fill(ctx, "", timeout))
	value, err = password.Value(ctx)
	require.NoError(t, err)
	assert.Empty(t, value)
	require.NoError(t, submit.WaitFor(ctx, entity.StateDisabled, timeout))

	require.NoError(t, password.Fill(ctx, "jakejake", timeout))
	require.NoError(t, submit.Click(ctx, timeout))
	require.NoError(t, page.WaitForURL(ctx, url+"#/done", timeout))

	texts, err := page.Locate(entity.ByCSS(".error-messages li")).AllTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"email has already been taken", "username is invalid"}, texts)
}

func TestLocator_Click_DisabledTimesOut(t *testing.T) {
	page, _ := newTestPage(t, FormHTML)

	err := page.Locate(entity.ByRole(entity.RoleButton, "Sign up")).Click(context.Background(), 300*time.Millisecond)

	assert.ErrorIs(t, err, output.ErrTimeout)
}

func TestLocator_Probes(t *testing.T) {
	page, _ := newTestPage(t, FormHTML)
	ctx := context.Background()

	visibleLinks, err := page.Locate(entity.ByRole(entity.RoleLink, "")).VisibleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, visibleLinks)

	headings, err := page.Locate(entity.Heading(1, "")).VisibleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, headings)

	visible, err := page.Locate(entity.ByRole(entity.RoleLink, "Hidden")).IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	texts, err := page.Locate(entity.Heading(1, "Sign up")).AllTexts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sign up"}, texts)

	_, err = page.Locate(entity.ByCSS("#missing")).Value(ctx)
	assert.ErrorIs(t, err, output.ErrNotFound)
}

func TestLocator_WaitForDelayedContent(t *testing.T) {
	page, _ := newTestPage(t, DelayedHTML)
	ctx := context.Background()

	heading := page.Locate(entity.Heading(2, "Don't panic"))
	require.NoError(t, heading.WaitFor(ctx, entity.StateVisible, 3*time.Second))
	require.NoError(t, heading.WaitForText(ctx, "panic", false, time.Second))

	err := heading.WaitFor(ctx, entity.StateHidden, 200*time.Millisecond)
	assert.ErrorIs(t, err, output.ErrTimeout)
}

func TestNewPage_Isolated(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	ctx := context.Background()
	url := serveHTML(t, BasicHTML)

	adapter, err := NewBrowserAdapter(ctx, DefaultConfig(), logger.NewNop())
	require.NoError(t, err)
	defer adapter.Close()

	first, err := adapter.NewPage(ctx)
	require.NoError(t, err)
	defer first.Close()
	require.NoError(t, first.Navigate(ctx, url))
	_, err = first.(*Page).page.Context(ctx).Eval(`() => localStorage.setItem('jwt', 'token')`)
	require.NoError(t, err)

	second, err := adapter.NewPage(ctx)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Navigate(ctx, url))

	res, err := second.(*Page).page.Context(ctx).Eval(`() => localStorage.getItem('jwt')`)
	require.NoError(t, err)
	assert.True(t, res.Value.Nil())
}
