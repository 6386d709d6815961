package env

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"conduit-e2e/internal/application/port/output"
	"conduit-e2e/internal/domain/entity"

	"github.com/joho/godotenv"
)

const (
	KeyBaseURL           = "BASE_URL"
	KeyDefaultTimeout    = "DEFAULT_TIMEOUT_MS"
	KeyNavigationTimeout = "NAVIGATION_TIMEOUT_MS"
	KeyExpectTimeout     = "EXPECT_TIMEOUT_MS"
	KeyProfile           = "E2E_PROFILE"
	KeyProfilesFile      = "E2E_PROFILES_FILE"
	KeyArtifactsDir      = "E2E_ARTIFACTS_DIR"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogDir            = "LOG_DIR"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct{}

// NewEnvService loads .env and .env.$APP_ENV from the working directory.
func NewEnvService() *EnvService {
	return NewEnvServiceIn(".")
}

// NewEnvServiceIn is NewEnvService rooted at dir. `go test` runs each package
// in its own directory, so test binaries pass the module root found by
// ModuleRoot.
func NewEnvServiceIn(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil {
		log.Printf("Info: no .env file found in %s (this is OK for CI/CD)", dir)
	}

	envFile := filepath.Join(dir, fmt.Sprintf(".env.%s", appEnv))
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

// ModuleRoot walks up from dir to the nearest directory holding go.mod.
func ModuleRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		if filepath.Dir(d) == d {
			return "", fmt.Errorf("no go.mod found above %s", abs)
		}
	}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Configuration reads the externally visible settings. BaseURL stays empty
// when BASE_URL is unset so callers can decide to start the local demo app.
func Configuration(cfg output.ConfigPort) entity.Configuration {
	ms := func(key string, def time.Duration) time.Duration {
		return time.Duration(cfg.GetInt(key, int(def/time.Millisecond))) * time.Millisecond
	}
	return entity.Configuration{
		BaseURL:           cfg.Get(KeyBaseURL),
		DefaultTimeout:    ms(KeyDefaultTimeout, entity.DefaultTimeout),
		NavigationTimeout: ms(KeyNavigationTimeout, entity.DefaultNavigationTimeout),
		ExpectTimeout:     ms(KeyExpectTimeout, entity.DefaultExpectTimeout),
	}
}
