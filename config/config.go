// Package config loads application configuration from file, environment and
// defaults, producing an immutable value that is constructed once at startup
// and passed by value into the orchestrator. No global mutable state.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/gddforge/orchestrator"
)

// Provider selects the generation backend.
type Provider string

const (
	// ProviderAnthropic uses the Anthropic Messages API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI uses the OpenAI Chat Completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderMock uses the deterministic in-memory model.
	ProviderMock Provider = "mock"
)

// Config is the full application configuration.
type Config struct {
	Provider  Provider            `mapstructure:"provider"`
	Model     string              `mapstructure:"model"`
	APIKey    string              `mapstructure:"api_key"`
	LogLevel  string              `mapstructure:"log_level"`
	LogFormat string              `mapstructure:"log_format"`
	Refine    orchestrator.Config `mapstructure:"-"`
}

// Load reads configuration from an optional file path (otherwise
// ./gddforge.yaml and $HOME/.gddforge.yaml are searched), the GDDFORGE_*
// environment and built-in defaults, in ascending priority of defaults <
// file < environment.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("provider", string(ProviderAnthropic))
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("orchestrator.max_iterations", 3)
	v.SetDefault("orchestrator.actor_temperature", 0.6)
	v.SetDefault("orchestrator.critic_temperature", 0.2)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("timeouts.actor_ms", 120000)
	v.SetDefault("timeouts.critic_ms", 60000)
	v.SetDefault("retries.max_attempts", 3)
	v.SetDefault("retries.backoff_base", 2.0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gddforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix("GDDFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		// A missing search-path file is fine; defaults and env still apply.
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Provider:  Provider(v.GetString("provider")),
		Model:     v.GetString("model"),
		APIKey:    v.GetString("api_key"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		Refine: orchestrator.Config{
			MaxIterations:     v.GetInt("orchestrator.max_iterations"),
			ActorTemperature:  v.GetFloat64("orchestrator.actor_temperature"),
			CriticTemperature: v.GetFloat64("orchestrator.critic_temperature"),
			MaxTokens:         v.GetInt64("llm.max_tokens"),
			ActorTimeout:      time.Duration(v.GetInt("timeouts.actor_ms")) * time.Millisecond,
			CriticTimeout:     time.Duration(v.GetInt("timeouts.critic_ms")) * time.Millisecond,
			MaxRetries:        v.GetInt("retries.max_attempts"),
			BackoffBase:       v.GetFloat64("retries.backoff_base"),
			BackoffUnit:       time.Second,
			MaxBackoff:        30 * time.Second,
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a working session.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Refine.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", c.Refine.MaxIterations)
	}
	if c.Refine.MaxRetries < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.Refine.MaxRetries)
	}
	if c.Refine.BackoffBase < 1 {
		return fmt.Errorf("backoff_base must be at least 1, got %v", c.Refine.BackoffBase)
	}
	return nil
}
