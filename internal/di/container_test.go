package di

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"conduit-e2e/internal/domain/entity"
	"conduit-e2e/internal/infrastructure/logger"
	"conduit-e2e/internal/infrastructure/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDemo(t *testing.T) {
	url, stop, err := StartDemo(logger.NewNop())
	require.NoError(t, err)
	defer stop()

	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:"))
	assert.True(t, strings.HasSuffix(url, "/"))

	resp, err := http.Get(url + "api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewBrowser_UnknownEngine(t *testing.T) {
	_, err := NewBrowser(context.Background(), entity.BrowserProfile{Name: "x", Engine: "selenium"}, logger.NewNop())

	assert.ErrorContains(t, err, `unknown engine "selenium"`)
}

func TestNewContainer_UnknownProfile(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("E2E_PROFILE", "netscape")

	_, err := NewContainer(context.Background(), Config{LogName: "di-test"})

	assert.ErrorContains(t, err, "unknown browser profile")
}

func TestNewContainer_ReadsEnvDir(t *testing.T) {
	root := t.TempDir()
	dotenv := "E2E_PROFILE=from-dotenv\nLOG_DIR=" + filepath.Join(root, "log") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(dotenv), 0o644))
	t.Setenv("APP_ENV", "test")
	t.Setenv("E2E_PROFILE", "")
	require.NoError(t, os.Unsetenv("E2E_PROFILE"))
	t.Setenv("LOG_DIR", "")
	require.NoError(t, os.Unsetenv("LOG_DIR"))

	_, err := NewContainer(context.Background(), Config{LogName: "di-test", EnvDir: root})

	assert.ErrorIs(t, err, profiles.ErrUnknownProfile)
	assert.ErrorContains(t, err, `"from-dotenv"`)
}

func TestUnder(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", "artifacts"), under("/repo", "artifacts"))
	assert.Equal(t, "/tmp/log", under("/repo", "/tmp/log"))
	assert.Equal(t, "", under("/repo", ""))
	assert.Equal(t, "log", under(".", "log"))
}
