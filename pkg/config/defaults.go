package config

import "time"

// builtinConfig returns the system's built-in defaults. User-supplied YAML
// is merged on top of this via mergo, matching the teacher's
// built-in-plus-overrides pattern (pkg/config/builtin.go).
func builtinConfig() *Config {
	return &Config{
		System: SystemConfig{
			HTTPPort: "8080",
		},
		Queue: QueueConfig{
			PipelineDeadline: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			TickInterval:    60 * time.Second,
			LookbackWindow:  5 * time.Minute,
			LookaheadWindow: 1 * time.Minute,
		},
		Auth: AuthConfig{
			SecretEnv: "INBOX_AUTH_SECRET",
			MaxAge:    24 * time.Hour,
		},
		Runbook: RunbookConfig{
			AllowedDomains: []string{"github.com", "raw.githubusercontent.com"},
			FetchTimeout:   10 * time.Second,
		},
		DefaultLLM: "anthropic-default",
		LLMProviders: map[string]*LLMProviderConfig{
			"anthropic-default": {
				Type:                LLMProviderTypeAnthropic,
				FastModel:           "claude-haiku-4-5",
				CapableModel:        "claude-sonnet-4-5",
				APIKeyEnv:           "ANTHROPIC_API_KEY",
				MaxToolResultTokens: 8000,
			},
		},
	}
}
