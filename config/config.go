// Package config loads the PromptDesk configuration from a YAML file. API
// keys are deliberately not part of the file: the provider SDKs read
// OPENAI_API_KEY and ANTHROPIC_API_KEY from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Providers ProvidersConfig `yaml:"providers"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ArtifactsConfig struct {
	// Dir is the directory that exclusively holds generated images.
	Dir string `yaml:"dir"`
	// Ext is appended to generated artifact keys.
	Ext string `yaml:"ext"`
	// TTLSeconds is how long an artifact survives before it is eligible
	// for deletion.
	TTLSeconds int `yaml:"ttl_seconds"`
	// SweepIntervalSeconds is how often the retention sweeper runs. Must
	// be shorter than the TTL to bound staleness.
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

// TTL returns the artifact time-to-live as a duration.
func (c ArtifactsConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepInterval returns the sweep period as a duration.
func (c ArtifactsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

type ProvidersConfig struct {
	OpenAIModel        string `yaml:"openai_model"`
	AnthropicModel     string `yaml:"anthropic_model"`
	AnthropicMaxTokens int64  `yaml:"anthropic_max_tokens"`
	ImageModel         string `yaml:"image_model"`
	ImageSize          string `yaml:"image_size"`
}

type SessionsConfig struct {
	// Backend selects the chat history store: "memory" or "sqlite".
	Backend string `yaml:"backend"`
	// DSN is the SQLite database path; ignored for the memory backend.
	DSN string `yaml:"dsn"`
}

type RateLimitConfig struct {
	// RPS limits requests per second on the provider-facing endpoints.
	RPS float64 `yaml:"rps"`
	// Burst is the number of requests allowed to exceed the rate briefly.
	Burst int `yaml:"burst"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Default returns the baseline configuration: 30 minute TTL, 1 minute sweep
// period, in-memory sessions, GPT-4o / Claude / DALL-E 3 defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Artifacts: ArtifactsConfig{
			Dir:                  "images",
			Ext:                  ".png",
			TTLSeconds:           1800,
			SweepIntervalSeconds: 60,
		},
		Providers: ProvidersConfig{
			OpenAIModel:        "gpt-4o",
			AnthropicModel:     "claude-sonnet-4-6",
			AnthropicMaxTokens: 1024,
			ImageModel:         "dall-e-3",
			ImageSize:          "1024x1024",
		},
		Sessions: SessionsConfig{Backend: "memory"},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the artifact lifecycle depends on.
func (c *Config) Validate() error {
	if c.Artifacts.TTLSeconds <= 0 {
		return fmt.Errorf("artifacts.ttl_seconds must be positive, got %d", c.Artifacts.TTLSeconds)
	}
	if c.Artifacts.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("artifacts.sweep_interval_seconds must be positive, got %d", c.Artifacts.SweepIntervalSeconds)
	}
	if c.Artifacts.SweepIntervalSeconds > c.Artifacts.TTLSeconds {
		return fmt.Errorf("artifacts.sweep_interval_seconds (%d) must not exceed ttl_seconds (%d)",
			c.Artifacts.SweepIntervalSeconds, c.Artifacts.TTLSeconds)
	}
	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts.dir must not be empty")
	}
	switch c.Sessions.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("sessions.backend must be memory or sqlite, got %q", c.Sessions.Backend)
	}
	if c.Sessions.Backend == "sqlite" && c.Sessions.DSN == "" {
		return fmt.Errorf("sessions.dsn is required for the sqlite backend")
	}
	return nil
}
