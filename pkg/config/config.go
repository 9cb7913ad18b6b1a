// Package config loads and validates the service's YAML configuration,
// following the teacher's load → merge-defaults → validate pipeline.
package config

import "time"

// Config is the fully-resolved, ready-to-use application configuration.
type Config struct {
	System        SystemConfig
	Queue         QueueConfig
	Scheduler     SchedulerConfig
	Auth          AuthConfig
	Runbook       RunbookConfig
	LLMProviders  map[string]*LLMProviderConfig
	LLMRegistry   *LLMProviderRegistry
	DefaultLLM    string
}

// SystemConfig groups system-wide, non-domain settings.
type SystemConfig struct {
	HTTPPort         string
	AllowedOrigins   []string
	DashboardURL     string
}

// QueueConfig controls the ingestion pipeline's resource bounds (spec §5:
// one goroutine per inbound message, no fixed worker pool — there is no
// queue to size or poll).
type QueueConfig struct {
	PipelineDeadline time.Duration `yaml:"pipeline_deadline"`
}

// SchedulerConfig controls the reminder scheduler (spec §4.5).
type SchedulerConfig struct {
	TickInterval  time.Duration `yaml:"tick_interval"`
	LookbackWindow time.Duration `yaml:"lookback_window"`
	LookaheadWindow time.Duration `yaml:"lookahead_window"`
}

// AuthConfig controls HTTP-surface authentication (spec §6).
type AuthConfig struct {
	SecretEnv   string        `yaml:"secret_env"`
	MaxAge      time.Duration `yaml:"max_age"`
}

// RunbookConfig controls the FetchURL port's allowed domains and timeout
// (spec §4.6).
type RunbookConfig struct {
	AllowedDomains []string      `yaml:"allowed_domains"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

// Stats summarizes the loaded configuration, useful for health/debug
// endpoints.
type Stats struct {
	LLMProviders int
}

// Stats returns summary counts of the loaded configuration.
func (c *Config) Stats() Stats {
	return Stats{LLMProviders: len(c.LLMProviders)}
}
