package repository

import (
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// TacticRecord is the JSON shape of a tactic on the wire.
type TacticRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Budget    float64   `json:"budget"`
	Content   string    `json:"content,omitempty"`
	SectionID string    `json:"section_id"`
	Rank      float64   `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func RecordFromTactic(t domain.Tactic) TacticRecord {
	return TacticRecord{
		ID:        t.ID,
		Title:     t.Title,
		Budget:    t.Budget,
		Content:   t.Content,
		SectionID: t.LaneID,
		Rank:      t.Rank,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (r TacticRecord) Tactic() domain.Tactic {
	return domain.Tactic{
		ID:        r.ID,
		LaneID:    r.SectionID,
		Title:     r.Title,
		Budget:    domain.CoerceBudget(r.Budget),
		Content:   r.Content,
		Rank:      r.Rank,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UpdateTacticRequest carries the full replacement of editable fields.
type UpdateTacticRequest struct {
	Title   string  `json:"title"`
	Budget  float64 `json:"budget"`
	Content string  `json:"content"`
}

// MoveTacticRequest carries the new lane and ordering key of a tactic.
type MoveTacticRequest struct {
	SectionID string  `json:"section_id"`
	Rank      float64 `json:"rank"`
}

type LaneRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type LibraryRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DefaultBudget float64   `json:"default_budget"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

func RecordFromLibrary(l *domain.LibraryTactic) LibraryRecord {
	return LibraryRecord{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		DefaultBudget: l.DefaultBudget,
		Category:      l.Category,
		CreatedAt:     l.CreatedAt,
	}
}

func (r LibraryRecord) LibraryTactic() *domain.LibraryTactic {
	return &domain.LibraryTactic{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		DefaultBudget: r.DefaultBudget,
		Category:      r.Category,
		CreatedAt:     r.CreatedAt,
	}
}
