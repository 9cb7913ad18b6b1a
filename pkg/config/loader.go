package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the on-disk inbox.yaml shape.
type yamlConfig struct {
	System       *SystemYAML                   `yaml:"system"`
	Queue        *QueueConfig                   `yaml:"queue"`
	Scheduler    *SchedulerConfig               `yaml:"scheduler"`
	Auth         *AuthConfig                    `yaml:"auth"`
	Runbook      *RunbookConfig                 `yaml:"runbook"`
	DefaultLLM   string                         `yaml:"default_llm,omitempty"`
	LLMProviders map[string]*LLMProviderConfig `yaml:"llm_providers"`
}

// SystemYAML mirrors SystemConfig's YAML tags (SystemConfig itself has no
// tags since it's also used for already-resolved values).
type SystemYAML struct {
	HTTPPort       string   `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	DashboardURL   string   `yaml:"dashboard_url"`
}

// Initialize loads, merges, and validates configuration from configDir.
// Missing inbox.yaml is not an error — the built-in defaults are used.
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)

	cfg := builtinConfig()

	path := filepath.Join(configDir, "inbox.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("No inbox.yaml found, using built-in defaults")
		} else {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
		}
	} else {
		raw = ExpandEnv(raw)
		var user yamlConfig
		if err := yaml.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		if err := applyUserConfig(cfg, &user); err != nil {
			return nil, err
		}
	}

	cfg.LLMRegistry = NewLLMProviderRegistry(cfg.LLMProviders)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	log.Info("Configuration initialized", "llm_providers", len(cfg.LLMProviders))
	return cfg, nil
}

func applyUserConfig(cfg *Config, user *yamlConfig) error {
	if user.System != nil {
		if user.System.HTTPPort != "" {
			cfg.System.HTTPPort = user.System.HTTPPort
		}
		if len(user.System.AllowedOrigins) > 0 {
			cfg.System.AllowedOrigins = user.System.AllowedOrigins
		}
		if user.System.DashboardURL != "" {
			cfg.System.DashboardURL = user.System.DashboardURL
		}
	}
	if user.Queue != nil {
		if err := mergo.Merge(&cfg.Queue, *user.Queue, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging queue config: %w", err)
		}
	}
	if user.Scheduler != nil {
		if err := mergo.Merge(&cfg.Scheduler, *user.Scheduler, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging scheduler config: %w", err)
		}
	}
	if user.Auth != nil {
		if err := mergo.Merge(&cfg.Auth, *user.Auth, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging auth config: %w", err)
		}
	}
	if user.Runbook != nil {
		if err := mergo.Merge(&cfg.Runbook, *user.Runbook, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging runbook config: %w", err)
		}
	}
	if user.DefaultLLM != "" {
		cfg.DefaultLLM = user.DefaultLLM
	}
	for name, provider := range user.LLMProviders {
		cfg.LLMProviders[name] = provider
	}
	return nil
}
