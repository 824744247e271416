// Package config loads runtime configuration from a YAML file with
// environment-variable fallbacks for deployment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when -config is not passed.
const DefaultConfigPath = "config.yml"

// AppConfig holds runtime startup configuration.
type AppConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"` // "development" | "production"
	DSN            string   `yaml:"dsn"` // MySQL DSN
	RedisURL       string   `yaml:"redis_url"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowSignup    bool     `yaml:"allow_signup"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AI             AIConfig `yaml:"ai"`
}

// AIConfig configures analysis providers. The first enabled provider is
// used unless RatingModel pins a specific one.
type AIConfig struct {
	Providers   []AIProvider       `yaml:"providers"`
	RatingModel *AIModelAssignment `yaml:"rating_model,omitempty"`
}

// AIModelAssignment pins rating analysis to one provider/model.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

// AIProvider describes one inference endpoint.
type AIProvider struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// Load reads the YAML config file, applies environment fallbacks, and
// validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		Port: 3000,
		Env:  "production",
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Config entirely from environment is fine.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.DSN == "" {
		return nil, errors.New("database dsn is required (dsn / DAYBOOK_DSN)")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("DAYBOOK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DAYBOOK_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DAYBOOK_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("DAYBOOK_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("DAYBOOK_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	// Convenience for single-provider deployments.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
			ID:      "openai",
			Type:    "openai",
			APIKey:  key,
			Enabled: true,
		})
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
			ID:      "anthropic",
			Type:    "anthropic",
			APIKey:  key,
			Enabled: true,
		})
	}
}
