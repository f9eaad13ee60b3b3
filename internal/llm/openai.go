package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatCompletionsService is the slice of the OpenAI SDK the client uses.
type ChatCompletionsService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// openAIClient implements LLMClient using OpenAI chat completions.
type openAIClient struct {
	cfg         LLMConfig
	completions ChatCompletionsService
	observer    Observer
}

// NewOpenAIClient creates an LLMClient backed by the OpenAI API. A non-default
// Endpoint is used as the API base URL, which also covers compatible gateways.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" && cfg.Endpoint != defaultOllamaEndpoint {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	client := openai.NewClient(opts...)
	return newOpenAIClientWithService(cfg, client.Chat.Completions, observer)
}

func newOpenAIClientWithService(cfg LLMConfig, svc ChatCompletionsService, observer Observer) *openAIClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &openAIClient{cfg: cfg, completions: svc, observer: observer}
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	temp, maxTok := c.cfg.resolve(req)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(messages),
		Model:       openai.F(openai.ChatModel(c.cfg.Model)),
		Temperature: openai.F(temp),
	}
	if maxTok > 0 {
		params.MaxTokens = openai.F(int64(maxTok))
	}

	resp, err := c.completions.New(ctx, params)
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("%w: no choices returned", ErrInvalidOutput)
	}

	latency := time.Since(start).Milliseconds()
	event := LLMCallEvent{
		Task:      req.Task,
		Provider:  ProviderOpenAI,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
	}
	if err != nil {
		if ctx.Err() != nil {
			err = ErrTimeout
		}
		event.ErrorCode = errorCode(err)
		c.observer.OnCallComplete(event)
		if errors.Is(err, ErrTimeout) || errors.Is(err, ErrInvalidOutput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
	c.observer.OnCallComplete(event)

	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}
	return &GenerateResponse{
		Text:      resp.Choices[0].Message.Content,
		Model:     model,
		LatencyMs: latency,
	}, nil
}

// Available reports whether a key is configured; the hosted API is assumed
// reachable.
func (c *openAIClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
