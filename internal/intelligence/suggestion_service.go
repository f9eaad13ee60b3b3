// Package intelligence wraps LLM calls that propose and describe tactics.
// Every failure degrades to an empty result.
package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/llm"
)

// MaxSuggestions caps how many tactics a single request may propose.
const MaxSuggestions = 5

// maxTitleLen bounds suggestion titles.
const maxTitleLen = 120

// Suggestion is one proposed tactic.
type Suggestion struct {
	Title  string  `json:"title"`
	Budget float64 `json:"budget"`
}

// suggestionWire is the model's answer shape. Budgets may arrive as numbers
// or as strings like "$500".
type suggestionWire struct {
	Title  string        `json:"title"`
	Budget domain.Amount `json:"budget"`
}

// SuggestionService proposes tactics for a business description.
type SuggestionService interface {
	// Suggest returns at most MaxSuggestions tactics. It never fails; any
	// collaborator error yields an empty slice.
	Suggest(ctx context.Context, description string) []Suggestion
}

type suggestionService struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewSuggestionService creates a SuggestionService backed by an LLM client.
func NewSuggestionService(client llm.LLMClient, logger *slog.Logger) SuggestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &suggestionService{client: client, logger: logger}
}

func (s *suggestionService) Suggest(ctx context.Context, description string) []Suggestion {
	description = strings.TrimSpace(description)
	if description == "" || s.client == nil {
		return []Suggestion{}
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSuggest,
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   "Business description:\n\n" + description,
	})
	if err != nil {
		s.logger.Warn("tactic suggestions unavailable", "error", err.Error())
		return []Suggestion{}
	}

	parsed, err := llm.ExtractJSONArray[suggestionWire](resp.Text, nil)
	if err != nil {
		s.logger.Warn("tactic suggestions unparseable", "error", err.Error())
		return []Suggestion{}
	}

	out := make([]Suggestion, 0, min(len(parsed), MaxSuggestions))
	for _, sg := range parsed {
		if len(out) == MaxSuggestions {
			break
		}
		if err := validateSuggestion(sg.Title); err != nil {
			s.logger.Debug("dropping suggestion", "error", err.Error())
			continue
		}
		out = append(out, Suggestion{
			Title:  strings.TrimSpace(sg.Title),
			Budget: sg.Budget.Float(),
		})
	}
	return out
}

func validateSuggestion(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("title exceeds %d characters", maxTitleLen)
	}
	return nil
}
