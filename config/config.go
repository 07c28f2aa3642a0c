package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"aetherbridge/compat-probe/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config is everything a probe run needs. It is passed into probe.Run
// explicitly, there is no process-wide state.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds the whole HTTP exchange, 0 leaves it to the transport.
	Timeout time.Duration
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		BaseURL: constants.DefaultBaseURL,
		APIKey:  constants.DefaultAPIKey,
		Model:   constants.DefaultModel,
		Timeout: constants.DefaultTimeout,
	}
}

// Load builds the config from, in order of precedence: command line flags,
// environment variables, the .env file, and the defaults.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("compat-probe", pflag.ContinueOnError)
	envFile := flags.String("env-file", constants.DefaultEnvFile, "optional .env file to load")
	baseURL := flags.String("base-url", "", "API base URL (env PROBE_BASE_URL)")
	apiKey := flags.String("api-key", "", "bearer credential (env PROBE_API_KEY)")
	model := flags.String("model", "", "model identifier (env PROBE_MODEL)")
	timeout := flags.String("timeout", "", "request timeout, e.g. 10s, 0 to disable (env PROBE_TIMEOUT)")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	// existing environment variables win over the file
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file %s: %w", *envFile, err)
	}

	cfg := Default()
	cfg.BaseURL = firstNonEmpty(*baseURL, os.Getenv("PROBE_BASE_URL"), cfg.BaseURL)
	cfg.APIKey = firstNonEmpty(*apiKey, os.Getenv("PROBE_API_KEY"), cfg.APIKey)
	cfg.Model = firstNonEmpty(*model, os.Getenv("PROBE_MODEL"), cfg.Model)

	if raw := firstNonEmpty(*timeout, os.Getenv("PROBE_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout %q: %w", raw, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("invalid timeout %q: must not be negative", raw)
		}
		cfg.Timeout = d
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("base URL must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
