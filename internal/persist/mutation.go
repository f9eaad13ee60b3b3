package persist

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

// Mutation is one remote store call derived from a committed board change.
// The set of variants is closed.
type Mutation interface {
	// Kind names the remote operation for logs.
	Kind() string
	// ItemID is the tactic the call targets.
	ItemID() string
	apply(ctx context.Context, store repository.RemoteStore) error
}

// Insert persists a newly created tactic.
type Insert struct{ Tactic domain.Tactic }

// Update replaces the editable fields of a tactic.
type Update struct {
	ID     string
	Fields repository.TacticFields
}

// Move changes a tactic's lane and ordering key.
type Move struct {
	ID     string
	LaneID string
	Rank   float64
}

// Delete removes a tactic.
type Delete struct{ ID string }

func (Insert) Kind() string { return "insert" }
func (Update) Kind() string { return "update" }
func (Move) Kind() string   { return "move" }
func (Delete) Kind() string { return "delete" }

func (m Insert) ItemID() string { return m.Tactic.ID }
func (m Update) ItemID() string { return m.ID }
func (m Move) ItemID() string   { return m.ID }
func (m Delete) ItemID() string { return m.ID }

func (m Insert) apply(ctx context.Context, s repository.RemoteStore) error {
	return s.InsertItem(ctx, m.Tactic)
}

func (m Update) apply(ctx context.Context, s repository.RemoteStore) error {
	return s.UpdateItem(ctx, m.ID, m.Fields)
}

func (m Move) apply(ctx context.Context, s repository.RemoteStore) error {
	return s.MoveItem(ctx, m.ID, m.LaneID, m.Rank)
}

func (m Delete) apply(ctx context.Context, s repository.RemoteStore) error {
	return s.DeleteItem(ctx, m.ID)
}

// Failure is a mutation whose remote call failed. The board keeps the change;
// reconciling is left to the user.
type Failure struct {
	CorrelationID string
	Mutation      Mutation
	Err           error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", f.Mutation.Kind(), f.Mutation.ItemID(), f.CorrelationID, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }
