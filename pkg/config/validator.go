package config

import "fmt"

// validate checks invariants across the merged configuration that struct
// tags alone can't express (cross-field and map-keyed checks).
func validate(cfg *Config) error {
	if cfg.System.HTTPPort == "" {
		return fmt.Errorf("system.http_port is required")
	}
	if cfg.Queue.PipelineDeadline <= 0 {
		return fmt.Errorf("queue.pipeline_deadline must be positive")
	}
	if cfg.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("scheduler.tick_interval must be positive")
	}
	if cfg.Auth.SecretEnv == "" {
		return fmt.Errorf("auth.secret_env is required")
	}
	if len(cfg.LLMProviders) == 0 {
		return fmt.Errorf("at least one llm provider must be configured")
	}
	if cfg.DefaultLLM == "" {
		return fmt.Errorf("default_llm is required")
	}
	if _, ok := cfg.LLMProviders[cfg.DefaultLLM]; !ok {
		return fmt.Errorf("default_llm %q is not a configured provider", cfg.DefaultLLM)
	}
	for name, p := range cfg.LLMProviders {
		if p.Type == "" {
			return fmt.Errorf("llm_providers.%s.type is required", name)
		}
		if p.Type != LLMProviderTypeAnthropic {
			return fmt.Errorf("llm_providers.%s: unsupported provider type %q", name, p.Type)
		}
		if p.FastModel == "" || p.CapableModel == "" {
			return fmt.Errorf("llm_providers.%s: fast_model and capable_model are required", name)
		}
	}
	return nil
}
