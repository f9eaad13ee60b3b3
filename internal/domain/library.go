package domain

import "time"

// LibraryTactic is a read-only template that can be instantiated onto a board.
type LibraryTactic struct {
	ID            string
	Title         string
	Description   string
	DefaultBudget float64
	Category      string
	CreatedAt     time.Time
}

// Validate checks the template before it is stored.
func (l *LibraryTactic) Validate() error {
	if l.Title == "" {
		return invalid("title", "is required")
	}
	if l.Category != "" && !ValidLibraryCategories[l.Category] {
		return invalid("category", "unknown category %q", l.Category)
	}
	if CoerceBudget(l.DefaultBudget) != l.DefaultBudget {
		return invalid("default_budget", "must be a non-negative number")
	}
	return nil
}

// CoalesceCategory returns category, or "general" when it is empty.
func CoalesceCategory(category string) string {
	if category == "" {
		return "general"
	}
	return category
}
