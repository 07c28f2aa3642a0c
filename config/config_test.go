package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"aetherbridge/compat-probe/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{"PROBE_BASE_URL", "PROBE_API_KEY", "PROBE_MODEL", "PROBE_TIMEOUT"}

// clearEnv unsets the probe variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"--env-file", missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	assert.Equal(t, "dummy-key", cfg.APIKey)
	assert.Equal(t, constants.DefaultModel, cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROBE_BASE_URL", "http://127.0.0.1:9999/v1/")
	t.Setenv("PROBE_API_KEY", "sk-env")
	t.Setenv("PROBE_MODEL", "env-model")
	t.Setenv("PROBE_TIMEOUT", "5s")

	cfg, err := Load([]string{"--env-file", missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999/v1", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROBE_BASE_URL", "http://env:1/v1")
	t.Setenv("PROBE_TIMEOUT", "5s")

	cfg, err := Load([]string{
		"--env-file", missingEnvFile(t),
		"--base-url", "http://flag:2/v1",
		"--timeout", "0",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2/v1", cfg.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROBE_API_KEY=sk-file\nPROBE_MODEL=file-model\n"), 0o600))

	t.Run("file fills unset values", func(t *testing.T) {
		cfg, err := Load([]string{"--env-file", path})
		require.NoError(t, err)
		assert.Equal(t, "sk-file", cfg.APIKey)
		assert.Equal(t, "file-model", cfg.Model)
		assert.Equal(t, constants.DefaultBaseURL, cfg.BaseURL)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("PROBE_API_KEY", "sk-env")
		cfg, err := Load([]string{"--env-file", path})
		require.NoError(t, err)
		assert.Equal(t, "sk-env", cfg.APIKey)
	})
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad timeout", env: map[string]string{"PROBE_TIMEOUT": "soon"}},
		{name: "negative timeout", args: []string{"--timeout", "-1s"}},
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "empty base url", args: []string{"--base-url", "/"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			args := append([]string{"--env-file", missingEnvFile(t)}, tc.args...)
			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}
