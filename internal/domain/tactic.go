package domain

import "time"

// Tactic is a single planning card on the board.
type Tactic struct {
	ID      string
	LaneID  string
	Title   string
	Budget  float64
	Content string

	// Rank orders tactics inside a lane; lower ranks render first.
	Rank float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TacticPatch describes a partial edit. Nil fields are left untouched.
type TacticPatch struct {
	Title   *string
	Budget  *float64
	Content *string
}

// Empty reports whether the patch changes nothing.
func (p TacticPatch) Empty() bool {
	return p.Title == nil && p.Budget == nil && p.Content == nil
}

// Apply writes the patch onto t and reports whether any field changed.
func (p TacticPatch) Apply(t *Tactic) bool {
	changed := false
	if p.Title != nil && *p.Title != t.Title {
		t.Title = *p.Title
		changed = true
	}
	if p.Budget != nil {
		b := CoerceBudget(*p.Budget)
		if b != t.Budget {
			t.Budget = b
			changed = true
		}
	}
	if p.Content != nil && *p.Content != t.Content {
		t.Content = *p.Content
		changed = true
	}
	return changed
}

// DisplayID returns a short identifier for terminal output.
func (t *Tactic) DisplayID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}
