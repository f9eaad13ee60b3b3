package testutil

import (
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/google/uuid"
)

// Tactic options
type TacticOption func(*domain.Tactic)

func WithBudget(b float64) TacticOption {
	return func(t *domain.Tactic) {
		t.Budget = b
	}
}

func WithContent(c string) TacticOption {
	return func(t *domain.Tactic) {
		t.Content = c
	}
}

func WithRank(r float64) TacticOption {
	return func(t *domain.Tactic) {
		t.Rank = r
	}
}

func WithTacticID(id string) TacticOption {
	return func(t *domain.Tactic) {
		t.ID = id
	}
}

func NewTestTactic(laneID, title string, opts ...TacticOption) domain.Tactic {
	now := time.Now().UTC()
	t := domain.Tactic{
		ID:        uuid.New().String(),
		LaneID:    laneID,
		Title:     title,
		Rank:      1024,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Library options
type LibraryOption func(*domain.LibraryTactic)

func WithDefaultBudget(b float64) LibraryOption {
	return func(l *domain.LibraryTactic) {
		l.DefaultBudget = b
	}
}

func WithCategory(c string) LibraryOption {
	return func(l *domain.LibraryTactic) {
		l.Category = c
	}
}

func WithDescription(d string) LibraryOption {
	return func(l *domain.LibraryTactic) {
		l.Description = d
	}
}

func NewTestLibraryTactic(title string, opts ...LibraryOption) *domain.LibraryTactic {
	l := &domain.LibraryTactic{
		ID:          uuid.New().String(),
		Title:       title,
		Description: title + " description",
		Category:    "general",
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultLanes returns the three seeded campaign lanes.
func DefaultLanes() []domain.Lane {
	return []domain.Lane{
		{ID: domain.LaneAwareness, Title: "Awareness", Position: 0},
		{ID: domain.LaneConversion, Title: "Conversion", Position: 1},
		{ID: domain.LaneRetention, Title: "Retention", Position: 2},
	}
}
