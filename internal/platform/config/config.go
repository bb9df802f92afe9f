package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	appEnvLocal = "local"
	llmKeyMock  = "mock"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseConfig
	LLMConfig
	HTTPConfig
	RecommendConfig
	MaintenanceConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyLegacyAliases(cfg)

	return cfg, nil
}

// IsLocal reports whether the app runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.AppEnv == appEnvLocal
}

// UseMockLLM reports whether the offline LLM client should be used.
func (c *Config) UseMockLLM() bool {
	return c.APIKey == "" || c.APIKey == llmKeyMock
}

// applyLegacyAliases accepts the variable names used by older deployments
// when the current name is not set.
func applyLegacyAliases(cfg *Config) {
	if !hasEnv("LLM_API_KEY") {
		setStringFromEnv("OPENAI_API_KEY", &cfg.APIKey)
	}

	if !hasEnv("LLM_BASE_URL") {
		setStringFromEnv("OPENAI_BASE_URL", &cfg.BaseURL)
	}

	if !hasEnv("HTTP_PORT") {
		setIntFromEnv("PORT", &cfg.Port)
	}

	if !hasEnv("REQUEST_TIMEOUT") {
		setDurationFromEnv("OPENAI_TIMEOUT", &cfg.RequestTimeout)
	}
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setStringFromEnv(key string, target *string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	val = strings.TrimSpace(val)
	if val == "" {
		return
	}

	*target = val
}

func setIntFromEnv(key string, target *int) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}

func setDurationFromEnv(key string, target *time.Duration) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}
