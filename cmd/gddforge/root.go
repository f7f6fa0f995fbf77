package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gddforge/config"
	"github.com/hupe1980/gddforge/logging"
	"github.com/hupe1980/gddforge/model"
	modelanthropic "github.com/hupe1980/gddforge/model/anthropic"
	modelopenai "github.com/hupe1980/gddforge/model/openai"
)

var version = "0.1.0"

var (
	cfgFile  string
	provider string
	modelID  string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "gddforge",
	Short: "Actor/critic game design document generator",
	Long: `gddforge turns a short game concept into a full game design document.

A designer model drafts the document, a reviewer model critiques it, and the
draft is revised until approved or the iteration cap is reached. Even when
backends fail, a run always produces a usable document.

Use "gddforge plan --help" for generation options.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./gddforge.yaml, $HOME/.gddforge.yaml)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "model provider: anthropic, openai or mock")
	rootCmd.PersistentFlags().StringVar(&modelID, "model", "", "model identifier (provider default if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig merges the config file, environment and command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if provider != "" {
		cfg.Provider = config.Provider(strings.ToLower(provider))
	}
	if modelID != "" {
		cfg.Model = modelID
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) logging.Logger {
	level := slog.LevelInfo
	if verbose || cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return logging.NewSlogAdapter(slog.New(handler))
}

// newModel builds the generation backend selected by the configuration. The
// mock provider replays a canned approve cycle and needs no credentials.
func newModel(cfg config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return modelanthropic.NewModel(func(o *modelanthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
			if cfg.APIKey != "" {
				o.APIKey = cfg.APIKey
			}
		}), nil
	case config.ProviderOpenAI:
		return modelopenai.NewModel(func(o *modelopenai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.APIKey != "" {
				o.APIKey = cfg.APIKey
			}
		}), nil
	case config.ProviderMock:
		return newMockModel(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
