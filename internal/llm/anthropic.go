package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

// MessagesService is the slice of the Anthropic SDK the client uses.
type MessagesService interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// anthropicClient implements LLMClient using the Anthropic Messages API.
type anthropicClient struct {
	cfg      LLMConfig
	messages MessagesService
	observer Observer
}

// NewAnthropicClient creates an LLMClient backed by the Anthropic API.
func NewAnthropicClient(cfg LLMConfig, observer Observer) LLMClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Endpoint != "" && cfg.Endpoint != defaultOllamaEndpoint {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(opts...)
	return newAnthropicClientWithService(cfg, &client.Messages, observer)
}

func newAnthropicClientWithService(cfg LLMConfig, svc MessagesService, observer Observer) *anthropicClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &anthropicClient{cfg: cfg, messages: svc, observer: observer}
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	temp, maxTok := c.cfg.resolve(req)
	if maxTok <= 0 {
		maxTok = defaultAnthropicMaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(maxTok),
		Temperature: anthropic.Float(temp),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	var text string
	resp, err := c.messages.New(ctx, params)
	if err == nil {
		text = messageText(resp)
		if text == "" {
			err = fmt.Errorf("%w: no text content returned", ErrInvalidOutput)
		}
	}

	latency := time.Since(start).Milliseconds()
	event := LLMCallEvent{
		Task:      req.Task,
		Provider:  ProviderAnthropic,
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

	model := string(resp.Model)
	if model == "" {
		model = c.cfg.Model
	}
	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

// Available reports whether a key is configured.
func (c *anthropicClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}

func messageText(m *anthropic.Message) string {
	if m == nil {
		return ""
	}
	var parts []string
	for _, block := range m.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
