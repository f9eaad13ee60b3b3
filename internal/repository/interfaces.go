package repository

import (
	"context"

	"github.com/alexanderramin/planboard/internal/domain"
)

// TacticFields is the full set of user-editable tactic fields. An update
// always replaces all of them.
type TacticFields struct {
	Title   string
	Budget  float64
	Content string
}

// FieldsOf extracts the editable fields of t.
func FieldsOf(t domain.Tactic) TacticFields {
	return TacticFields{Title: t.Title, Budget: t.Budget, Content: t.Content}
}

// RemoteStore is the durable mirror of the board, keyed by tactic id.
// Implementations may be local (SQLite) or remote (HTTP).
type RemoteStore interface {
	ListItems(ctx context.Context) ([]domain.Tactic, error)
	InsertItem(ctx context.Context, t domain.Tactic) error
	UpdateItem(ctx context.Context, id string, fields TacticFields) error
	// DeleteItem is idempotent: deleting a missing id is not an error.
	DeleteItem(ctx context.Context, id string) error
	MoveItem(ctx context.Context, id, laneID string, rank float64) error
}

type LaneRepo interface {
	ListLanes(ctx context.Context) ([]domain.Lane, error)
}

type LibraryRepo interface {
	List(ctx context.Context, category string) ([]*domain.LibraryTactic, error)
	GetByID(ctx context.Context, id string) (*domain.LibraryTactic, error)
	Create(ctx context.Context, l *domain.LibraryTactic) error
	Delete(ctx context.Context, id string) error
}
