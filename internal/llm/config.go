package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskSuggest TaskType = "suggest"
	TaskContent TaskType = "content"
)

// Provider selects the backend that serves generation calls.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool                    `yaml:"enabled"`
	LogCalls   bool                    `yaml:"log_calls"`
	Provider   Provider                `yaml:"provider"`
	Endpoint   string                  `yaml:"endpoint"`
	Model      string                  `yaml:"model"`
	APIKey     string                  `yaml:"-"` // env-only
	TimeoutMs  int                     `yaml:"timeout_ms"`
	MaxRetries int                     `yaml:"max_retries"`
	Tasks      map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   defaultOllamaEndpoint,
		Model:      "llama3.2",
		TimeoutMs:  15000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggest: {Temperature: 0.4, MaxTokens: 1024, TimeoutMs: 15000},
			TaskContent: {Temperature: 0.7, MaxTokens: 2048, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays PLANBOARD_LLM_* environment variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("PLANBOARD_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PLANBOARD_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PLANBOARD_LLM_PROVIDER"); v != "" {
		switch p := Provider(v); p {
		case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
			cfg.Provider = p
		}
	}
	if v := os.Getenv("PLANBOARD_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PLANBOARD_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PLANBOARD_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if cfg.APIKey == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if v := os.Getenv("PLANBOARD_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PLANBOARD_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskSuggest, "PLANBOARD_LLM_SUGGEST_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskContent, "PLANBOARD_LLM_CONTENT_TIMEOUT_MS")
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// resolve returns the temperature and token limit for req, applying any
// per-request overrides on top of the task defaults.
func (c LLMConfig) resolve(req GenerateRequest) (float64, int) {
	tc := c.Tasks[req.Task]
	temp, maxTok := tc.Temperature, tc.MaxTokens
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
