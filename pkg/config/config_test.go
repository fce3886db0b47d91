package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name     string        `env:"TEST_NAME" yaml:"name" default:"default-name"`
	Port     int           `env:"TEST_PORT" yaml:"port" default:"8080"`
	Debug    bool          `env:"TEST_DEBUG" yaml:"debug" default:"false"`
	Timeout  time.Duration `env:"TEST_TIMEOUT" yaml:"timeout" default:"30s"`
	Rate     float64       `env:"TEST_RATE" yaml:"rate" default:"1.5"`
	Tags     []string      `env:"TEST_TAGS" yaml:"tags"`
	Required string        `env:"TEST_REQUIRED" yaml:"required" required:"true"`
}

type nestedConfig struct {
	Service string `env:"TEST_SERVICE" yaml:"service" default:"svc"`
	Inner   testConfig
}

type validatedConfig struct {
	Limit int `env:"TEST_LIMIT" yaml:"limit" default:"10"`
}

func (v validatedConfig) Validate() error {
	if v.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", v.Limit)
	}
	return nil
}

type pointerValidatedConfig struct {
	Limit int `env:"TEST_LIMIT" yaml:"limit" default:"10"`
}

func (v *pointerValidatedConfig) Validate() error {
	if v.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", v.Limit)
	}
	return nil
}

func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TEST_NAME", "TEST_PORT", "TEST_DEBUG", "TEST_TIMEOUT",
		"TEST_RATE", "TEST_TAGS", "TEST_REQUIRED", "TEST_SERVICE", "TEST_LIMIT"} {
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefaults(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_REQUIRED", "present")

	var cfg testConfig
	require.NoError(t, GetConfigFromEnvVars(&cfg))

	assert.Equal(t, "default-name", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1.5, cfg.Rate)
	assert.Equal(t, "present", cfg.Required)
}

func TestEnvOverridesDefaults(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_NAME", "from-env")
	t.Setenv("TEST_PORT", "9999")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_TIMEOUT", "1m")
	t.Setenv("TEST_TAGS", "a, b,c")
	t.Setenv("TEST_REQUIRED", "present")

	var cfg testConfig
	require.NoError(t, GetConfigFromEnvVars(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
}

func TestRequiredFieldMissing(t *testing.T) {
	clearTestEnv(t)

	var cfg testConfig
	err := GetConfigFromEnvVars(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_REQUIRED")
	// Config is reset on error so partial values cannot leak out
	assert.Zero(t, cfg)
}

func TestInvalidIntValue(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_PORT", "not-a-number")
	t.Setenv("TEST_REQUIRED", "present")

	var cfg testConfig
	err := GetConfigFromEnvVars(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to convert")
}

func TestNestedStructs(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_REQUIRED", "present")
	t.Setenv("TEST_NAME", "nested-env")

	var cfg nestedConfig
	require.NoError(t, GetConfigFromEnvVars(&cfg))

	assert.Equal(t, "svc", cfg.Service)
	assert.Equal(t, "nested-env", cfg.Inner.Name)
	assert.Equal(t, 8080, cfg.Inner.Port)
}

func TestValidatorIsCalled(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_LIMIT", "-1")

	var cfg validatedConfig
	err := GetConfigFromEnvVars(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidatorWithPointerReceiverIsCalled(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_LIMIT", "-1")

	var cfg pointerValidatedConfig
	err := GetConfigFromEnvVars(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	t.Setenv("TEST_LIMIT", "5")
	var ok pointerValidatedConfig
	require.NoError(t, GetConfigFromEnvVars(&ok))
	assert.Equal(t, 5, ok.Limit)
}

func TestYAMLFileWithEnvOverlay(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_PORT", "7777")
	t.Setenv("TEST_REQUIRED", "present")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-yaml\nport: 1234\n"), 0o600))

	var cfg testConfig
	require.NoError(t, GetConfig(&cfg, path, false))

	assert.Equal(t, "from-yaml", cfg.Name)
	// Environment wins over the file
	assert.Equal(t, 7777, cfg.Port)
}

func TestMissingFileFallsBackWhenAllowed(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("TEST_REQUIRED", "present")

	var cfg testConfig
	require.NoError(t, GetConfig(&cfg, "/nonexistent/config.yaml", true))
	assert.Equal(t, "default-name", cfg.Name)

	var cfg2 testConfig
	require.Error(t, GetConfig(&cfg2, "/nonexistent/config.yaml", false))
}
