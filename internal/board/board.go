// Package board holds the in-memory partition of tactics into lanes.
//
// All operations are synchronous and never fail: unknown lane or tactic ids
// and out-of-range indexes are treated as "not found" and reported through a
// false return rather than an error. Remote persistence is handled one layer
// up by the service and persist packages.
package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/google/uuid"
)

// Board is the render-ready partition of tactics. It is not safe for
// concurrent use; callers serialise access the same way a UI event loop does.
type Board struct {
	Lanes []domain.Lane

	newID         func() string
	now           func() time.Time
	rankCollision func(laneID string, t domain.Tactic)
}

// Option configures a Board.
type Option func(*Board)

// WithIDFunc overrides tactic id generation.
func WithIDFunc(fn func() string) Option {
	return func(b *Board) { b.newID = fn }
}

// WithClock overrides the timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(b *Board) { b.now = fn }
}

// WithRankCollisionHook sets fn to run when a placement cannot get a rank
// strictly between its neighbours because the float gap is used up. The
// tactic keeps a rank equal to a neighbour's, so after a reload its order
// against that neighbour falls back to CreatedAt.
func WithRankCollisionHook(fn func(laneID string, t domain.Tactic)) Option {
	return func(b *Board) { b.rankCollision = fn }
}

// New creates a board with the given lanes, ordered by Position.
func New(lanes []domain.Lane, opts ...Option) *Board {
	b := &Board{
		Lanes: make([]domain.Lane, len(lanes)),
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
	for i, l := range lanes {
		l.Tactics = append([]domain.Tactic(nil), l.Tactics...)
		b.Lanes[i] = l
	}
	sort.SliceStable(b.Lanes, func(i, j int) bool { return b.Lanes[i].Position < b.Lanes[j].Position })
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromTactics builds a board from lanes and a flat tactic list as returned by
// the remote store. Tactics are ordered by Rank then CreatedAt. Tactics that
// name an unknown lane, or repeat an id seen earlier in the input, are
// returned as orphans and left off the board.
func FromTactics(lanes []domain.Lane, tactics []domain.Tactic, opts ...Option) (*Board, []domain.Tactic) {
	b := New(lanes, opts...)
	for i := range b.Lanes {
		b.Lanes[i].Tactics = nil
	}

	// The first occurrence of an id wins, in input order.
	seen := make(map[string]bool, len(tactics))
	var placed, orphans []domain.Tactic
	for _, t := range tactics {
		if b.lane(t.LaneID) == nil || seen[t.ID] {
			orphans = append(orphans, t)
			continue
		}
		seen[t.ID] = true
		placed = append(placed, t)
	}

	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].Rank != placed[j].Rank {
			return placed[i].Rank < placed[j].Rank
		}
		return placed[i].CreatedAt.Before(placed[j].CreatedAt)
	})
	for _, t := range placed {
		l := b.lane(t.LaneID)
		t.Budget = domain.CoerceBudget(t.Budget)
		l.Tactics = append(l.Tactics, t)
	}
	return b, orphans
}

// Clone returns a deep copy sharing no tactic slices with b.
func (b *Board) Clone() *Board {
	c := &Board{
		Lanes: make([]domain.Lane, len(b.Lanes)),
		newID:         b.newID,
		now:           b.now,
		rankCollision: b.rankCollision,
	}
	for i, l := range b.Lanes {
		l.Tactics = append([]domain.Tactic(nil), l.Tactics...)
		c.Lanes[i] = l
	}
	return c
}

// Restore replaces b's lanes with a deep copy of snapshot's lanes.
func (b *Board) Restore(snapshot *Board) {
	b.Lanes = snapshot.Clone().Lanes
}

func (b *Board) lane(id string) *domain.Lane {
	for i := range b.Lanes {
		if b.Lanes[i].ID == id {
			return &b.Lanes[i]
		}
	}
	return nil
}

// Lane returns a copy of the lane with the given id.
func (b *Board) Lane(id string) (domain.Lane, bool) {
	l := b.lane(id)
	if l == nil {
		return domain.Lane{}, false
	}
	cp := *l
	cp.Tactics = append([]domain.Tactic(nil), l.Tactics...)
	return cp, true
}

// HasLane reports whether id names a lane on this board.
func (b *Board) HasLane(id string) bool {
	return b.lane(id) != nil
}

// Locate returns the lane and index currently holding tacticID.
func (b *Board) Locate(tacticID string) (laneID string, index int, ok bool) {
	for i := range b.Lanes {
		if idx := b.Lanes[i].IndexOf(tacticID); idx >= 0 {
			return b.Lanes[i].ID, idx, true
		}
	}
	return "", -1, false
}

// Tactic returns a copy of the tactic with the given id.
func (b *Board) Tactic(id string) (domain.Tactic, bool) {
	laneID, idx, ok := b.Locate(id)
	if !ok {
		return domain.Tactic{}, false
	}
	return b.lane(laneID).Tactics[idx], true
}

// Count returns the number of tactics on the board.
func (b *Board) Count() int {
	n := 0
	for i := range b.Lanes {
		n += len(b.Lanes[i].Tactics)
	}
	return n
}

// LaneTotal returns the coerced budget sum for a lane; unknown lanes total 0.
func (b *Board) LaneTotal(laneID string) float64 {
	l := b.lane(laneID)
	if l == nil {
		return 0
	}
	return l.Total()
}

// GrandTotal returns the coerced budget sum across every lane.
func (b *Board) GrandTotal() float64 {
	var total float64
	for i := range b.Lanes {
		total += b.Lanes[i].Total()
	}
	return total
}

// Validate checks the partition invariant: every tactic sits in exactly one
// lane and its LaneID matches that lane.
func (b *Board) Validate() error {
	seen := make(map[string]string)
	for _, l := range b.Lanes {
		for _, t := range l.Tactics {
			if prev, dup := seen[t.ID]; dup {
				return fmt.Errorf("tactic %s appears in lanes %s and %s", t.ID, prev, l.ID)
			}
			seen[t.ID] = l.ID
			if t.LaneID != l.ID {
				return fmt.Errorf("tactic %s has lane id %q but sits in lane %q", t.ID, t.LaneID, l.ID)
			}
		}
	}
	return nil
}
