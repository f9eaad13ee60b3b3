package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/llm"
)

// ContentService drafts execution content for a tactic.
type ContentService interface {
	// Generate returns free-text content, or "" when the collaborator fails.
	Generate(ctx context.Context, title string, budget float64, instructions string) string
}

type contentService struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewContentService creates a ContentService backed by an LLM client.
func NewContentService(client llm.LLMClient, logger *slog.Logger) ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &contentService{client: client, logger: logger}
}

func (s *contentService) Generate(ctx context.Context, title string, budget float64, instructions string) string {
	title = strings.TrimSpace(title)
	if title == "" || s.client == nil {
		return ""
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskContent,
		SystemPrompt: contentSystemPrompt,
		UserPrompt:   contentPrompt(title, domain.CoerceBudget(budget), instructions),
	})
	if err != nil {
		s.logger.Warn("tactic content unavailable", "title", title, "error", err.Error())
		return ""
	}
	return llm.StripCodeFences(resp.Text)
}

func contentPrompt(title string, budget float64, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tactic: %s\nBudget: $%.2f\n", title, budget)
	if extra := strings.TrimSpace(instructions); extra != "" {
		fmt.Fprintf(&b, "\nAdditional instructions:\n%s\n", extra)
	}
	return b.String()
}
