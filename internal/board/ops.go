package board

import (
	"github.com/alexanderramin/planboard/internal/domain"
)

// RankStep is the gap left between neighbouring tactics when a rank is
// assigned at either end of a lane.
const RankStep = 1024.0

// MoveWithinLane relocates the tactic at from to index to inside one lane.
// It reports false for unknown lanes, out-of-range indexes and from == to.
func (b *Board) MoveWithinLane(laneID string, from, to int) bool {
	l := b.lane(laneID)
	if l == nil || from == to {
		return false
	}
	n := len(l.Tactics)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	t := l.Tactics[from]
	l.Tactics = append(l.Tactics[:from], l.Tactics[from+1:]...)
	l.Tactics = insertAt(l.Tactics, to, t)
	b.rerank(l, to)
	return true
}

// MoveAcrossLanes removes tacticID from srcLaneID and inserts it into
// dstLaneID at dstIndex. A negative or out-of-range index appends. The
// tactic's LaneID is updated in the same step. When source and destination
// are the same lane this is a within-lane move.
func (b *Board) MoveAcrossLanes(srcLaneID, dstLaneID, tacticID string, dstIndex int) bool {
	src := b.lane(srcLaneID)
	dst := b.lane(dstLaneID)
	if src == nil || dst == nil {
		return false
	}
	from := src.IndexOf(tacticID)
	if from < 0 {
		return false
	}
	if src == dst {
		to := dstIndex
		if to < 0 || to >= len(src.Tactics) {
			to = len(src.Tactics) - 1
		}
		return b.MoveWithinLane(srcLaneID, from, to)
	}

	t := src.Tactics[from]
	src.Tactics = append(src.Tactics[:from], src.Tactics[from+1:]...)

	t.LaneID = dst.ID
	t.UpdatedAt = b.now()
	idx := clampInsert(dstIndex, len(dst.Tactics))
	dst.Tactics = insertAt(dst.Tactics, idx, t)
	b.rerank(dst, idx)
	return true
}

// Insert places a new tactic in its LaneID at index (append when negative or
// out of range). It refuses ids already on the board and unknown lanes.
func (b *Board) Insert(t domain.Tactic, index int) bool {
	l := b.lane(t.LaneID)
	if l == nil || t.ID == "" {
		return false
	}
	if _, _, exists := b.Locate(t.ID); exists {
		return false
	}
	now := b.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Budget = domain.CoerceBudget(t.Budget)
	idx := clampInsert(index, len(l.Tactics))
	l.Tactics = insertAt(l.Tactics, idx, t)
	b.rerank(l, idx)
	return true
}

// NewTactic builds a tactic with a fresh id for the given lane. It is not
// placed on the board.
func (b *Board) NewTactic(laneID, title string, budget float64, content string) domain.Tactic {
	now := b.now()
	return domain.Tactic{
		ID:        b.newID(),
		LaneID:    laneID,
		Title:     title,
		Budget:    domain.CoerceBudget(budget),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InsertFromTemplate instantiates tpl as a new tactic with a fresh id and
// places it in dstLaneID. The template itself is never modified.
func (b *Board) InsertFromTemplate(tpl domain.LibraryTactic, dstLaneID string, dstIndex int) (domain.Tactic, bool) {
	if b.lane(dstLaneID) == nil {
		return domain.Tactic{}, false
	}
	t := b.NewTactic(dstLaneID, tpl.Title, tpl.DefaultBudget, tpl.Description)
	if !b.Insert(t, dstIndex) {
		return domain.Tactic{}, false
	}
	placed, _ := b.Tactic(t.ID)
	return placed, true
}

// RemoveTactic deletes the tactic from whichever lane holds it. Removing an
// id that is not on the board is a no-op.
func (b *Board) RemoveTactic(tacticID string) (domain.Tactic, bool) {
	laneID, idx, ok := b.Locate(tacticID)
	if !ok {
		return domain.Tactic{}, false
	}
	l := b.lane(laneID)
	t := l.Tactics[idx]
	l.Tactics = append(l.Tactics[:idx], l.Tactics[idx+1:]...)
	return t, true
}

// UpdateBudget sets the budget of a tactic in place, coercing invalid values
// to 0.
func (b *Board) UpdateBudget(tacticID string, budget float64) bool {
	_, ok := b.UpdateFields(tacticID, domain.TacticPatch{Budget: &budget})
	return ok
}

// UpdateFields applies patch to a tactic without changing its position. It
// reports false when the tactic is unknown or nothing changed.
func (b *Board) UpdateFields(tacticID string, patch domain.TacticPatch) (domain.Tactic, bool) {
	laneID, idx, ok := b.Locate(tacticID)
	if !ok {
		return domain.Tactic{}, false
	}
	t := &b.lane(laneID).Tactics[idx]
	if !patch.Apply(t) {
		return *t, false
	}
	t.UpdatedAt = b.now()
	return *t, true
}

// rerank assigns a rank to l.Tactics[idx] that sorts it between its
// neighbours. Only that one tactic changes.
func (b *Board) rerank(l *domain.Lane, idx int) {
	var prev, next *domain.Tactic
	if idx > 0 {
		prev = &l.Tactics[idx-1]
	}
	if idx < len(l.Tactics)-1 {
		next = &l.Tactics[idx+1]
	}
	r := rankBetween(prev, next)
	l.Tactics[idx].Rank = r
	if prev != nil && next != nil && !(prev.Rank < r && r < next.Rank) && b.rankCollision != nil {
		b.rankCollision(l.ID, l.Tactics[idx])
	}
}

func rankBetween(prev, next *domain.Tactic) float64 {
	switch {
	case prev == nil && next == nil:
		return RankStep
	case prev == nil:
		return next.Rank - RankStep
	case next == nil:
		return prev.Rank + RankStep
	default:
		return (prev.Rank + next.Rank) / 2
	}
}

func clampInsert(index, n int) int {
	if index < 0 || index > n {
		return n
	}
	return index
}

func insertAt(ts []domain.Tactic, idx int, t domain.Tactic) []domain.Tactic {
	ts = append(ts, domain.Tactic{})
	copy(ts[idx+1:], ts[idx:])
	ts[idx] = t
	return ts
}
