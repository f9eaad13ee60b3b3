package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// GenerateRequest is one prompt sent to whichever provider is configured.
// Nil Temperature or MaxTokens fall back to the task's settings.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64
	MaxTokens    *int
}

// GenerateResponse carries the raw completion text.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient generates text for the suggestion and content services.
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Available reports whether the backend answers right now.
	Available(ctx context.Context) bool
}

// NewClient builds the client for cfg.Provider. Hosted providers refuse to
// start without a key.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	case ProviderOpenAI, ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
		}
		if cfg.Provider == ProviderOpenAI {
			return NewOpenAIClient(cfg, observer), nil
		}
		return NewAnthropicClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return err != nil && errors.As(err, &opErr)
}

// errorCode classifies a failed call for LLMCallEvent.ErrorCode.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable), isConnectionError(err):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
