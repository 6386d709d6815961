package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"conduit-e2e/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("E2E_TEST_BOOL", "true")
	t.Setenv("E2E_TEST_INT", "42")
	t.Setenv("E2E_TEST_BAD_INT", "forty-two")
	t.Setenv("E2E_TEST_STR", "value")

	e := &EnvService{}

	assert.True(t, e.GetBool("E2E_TEST_BOOL", false))
	assert.False(t, e.GetBool("E2E_TEST_MISSING", false))
	assert.Equal(t, 42, e.GetInt("E2E_TEST_INT", 1))
	assert.Equal(t, 1, e.GetInt("E2E_TEST_BAD_INT", 1))
	assert.Equal(t, "value", e.GetWithDefault("E2E_TEST_STR", "other"))
	assert.Equal(t, "other", e.GetWithDefault("E2E_TEST_MISSING", "other"))
}

func TestNewEnvServiceIn_LoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("E2E_DOTENV_KEY=from-file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("E2E_DOTENV_KEY=from-ci\n"), 0o644))
	t.Setenv("APP_ENV", "ci")
	t.Cleanup(func() { os.Unsetenv("E2E_DOTENV_KEY") })

	e := NewEnvServiceIn(dir)

	assert.Equal(t, "from-ci", e.Get("E2E_DOTENV_KEY"))
}

func TestConfiguration(t *testing.T) {
	t.Setenv(KeyBaseURL, "http://localhost:4100/")
	t.Setenv(KeyDefaultTimeout, "2500")
	t.Setenv(KeyExpectTimeout, "")
	t.Setenv(KeyNavigationTimeout, "")

	cfg := Configuration(&EnvService{})

	assert.Equal(t, "http://localhost:4100/", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.DefaultTimeout)
	assert.Equal(t, entity.DefaultExpectTimeout, cfg.ExpectTimeout)
	assert.Equal(t, entity.DefaultNavigationTimeout, cfg.NavigationTimeout)
}

func TestModuleRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o644))
	pkg := filepath.Join(root, "e2e", "nested")
	require.NoError(t, os.MkdirAll(pkg, 0o755))

	got, err := ModuleRoot(pkg)

	require.NoError(t, err)
	want, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestModuleRoot_NoModule(t *testing.T) {
	_, err := ModuleRoot(string(filepath.Separator))

	assert.ErrorContains(t, err, "no go.mod found")
}

func TestNewEnvServiceIn_ModuleRootFromPackageDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("E2E_ROOT_KEY=from-root\n"), 0o644))
	pkg := filepath.Join(root, "e2e")
	require.NoError(t, os.Mkdir(pkg, 0o755))
	t.Setenv("APP_ENV", "test")
	t.Cleanup(func() { os.Unsetenv("E2E_ROOT_KEY") })

	dir, err := ModuleRoot(pkg)
	require.NoError(t, err)
	e := NewEnvServiceIn(dir)

	assert.Equal(t, "from-root", e.Get("E2E_ROOT_KEY"))
}
