package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/travigo/crowding/pkg/cachedresults"
	"github.com/travigo/crowding/pkg/tfl"
	"github.com/travigo/crowding/pkg/util"
)

const apiKeyVariable = "TRAVIGO_TFL_API_KEY"

// DockerSecretPath is checked when neither TRAVIGO_TFL_API_KEY nor TRAVIGO_TFL_API_KEY_FILE is set
var DockerSecretPath = "/run/secrets/tfl_app_key"

type MissingEnvironmentKey string

func (k MissingEnvironmentKey) Error() string {
	return fmt.Sprintf("%s environment variable not set", string(k))
}

type Config struct {
	TfLAPIKey  string
	TfLAPIBase string
	TfLPolicy  tfl.RetryPolicy

	RedisAddress string
	CacheTTL     time.Duration
	CacheJitter  time.Duration
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddress != ""
}

func (c *Config) ClientConfig() tfl.ClientConfig {
	return tfl.ClientConfig{
		BaseURL: c.TfLAPIBase,
		AppKey:  c.TfLAPIKey,
		Policy:  c.TfLPolicy,
	}
}

// Load reads an optional .env file from the working directory and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	env := util.GetEnvironmentVariables()

	apiKey, err := secretFromEnvironment(env, apiKeyVariable)
	if err != nil {
		return nil, err
	}

	config := &Config{
		TfLAPIKey:    apiKey,
		TfLAPIBase:   tfl.DefaultBaseURL,
		TfLPolicy:    tfl.DefaultRetryPolicy,
		RedisAddress: env["TRAVIGO_REDIS_ADDRESS"],
		CacheTTL:     cachedresults.DefaultTTL,
		CacheJitter:  cachedresults.DefaultJitter,
	}

	if env["TRAVIGO_TFL_API_BASE"] != "" {
		config.TfLAPIBase = env["TRAVIGO_TFL_API_BASE"]
	}

	if config.TfLPolicy.Timeout, err = durationFromEnvironment(env, "TRAVIGO_TFL_TIMEOUT", config.TfLPolicy.Timeout); err != nil {
		return nil, err
	}
	if config.CacheTTL, err = durationFromEnvironment(env, "TRAVIGO_CACHE_TTL", config.CacheTTL); err != nil {
		return nil, err
	}
	if config.CacheJitter, err = durationFromEnvironment(env, "TRAVIGO_CACHE_JITTER", config.CacheJitter); err != nil {
		return nil, err
	}

	if env["TRAVIGO_TFL_RETRIES"] != "" {
		retries, err := strconv.ParseUint(env["TRAVIGO_TFL_RETRIES"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TRAVIGO_TFL_RETRIES: %w", err)
		}
		config.TfLPolicy.MaxRetries = retries
	}

	return config, nil
}

func secretFromEnvironment(env map[string]string, key string) (string, error) {
	value := env[key]

	path := env[key+"_FILE"]
	if value == "" && path == "" {
		if _, err := os.Stat(DockerSecretPath); err == nil {
			path = DockerSecretPath
		}
	}

	if value == "" && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		value = string(content)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", MissingEnvironmentKey(key)
	}

	return value, nil
}

func durationFromEnvironment(env map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	if env[key] == "" {
		return fallback, nil
	}

	duration, err := time.ParseDuration(env[key])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, duration)
	}

	return duration, nil
}
