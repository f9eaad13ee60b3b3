package dragdrop

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededBoard(t *testing.T, layout map[string][]string) *board.Board {
	t.Helper()
	n := 0
	b := board.New([]domain.Lane{
		{ID: domain.LaneAwareness, Title: "Awareness", Position: 0},
		{ID: domain.LaneConversion, Title: "Conversion", Position: 1},
		{ID: domain.LaneRetention, Title: "Retention", Position: 2},
	},
		board.WithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }),
		board.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("new%d", n)
		}),
	)
	for _, laneID := range domain.DefaultLaneOrder {
		for _, id := range layout[laneID] {
			require.True(t, b.Insert(domain.Tactic{ID: id, LaneID: laneID, Title: id, Budget: 100}, -1))
		}
	}
	return b
}

func laneIDs(b *board.Board, laneID string) []string {
	l, _ := b.Lane(laneID)
	out := []string{}
	for _, t := range l.Tactics {
		out = append(out, t.ID)
	}
	return out
}

func TestController_SamePositionDropIsNoOp(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1", "t2"}})
	before := b.Clone()
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	assert.False(t, c.Over(CardTarget("t1")), "over itself")
	assert.False(t, c.Over(LaneTarget(domain.LaneAwareness)), "own lane container")

	_, committed := c.End()
	assert.False(t, committed)
	assert.Equal(t, before.Lanes, b.Lanes)
	assert.Equal(t, Idle, c.State())
}

func TestController_MoveAwayAndBackRestoresExactly(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1", "t2"}})
	before := b.Clone()
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	require.True(t, c.Over(LaneTarget(domain.LaneRetention)))
	require.True(t, c.Over(CardTarget("t2")))
	assert.Equal(t, []string{"t1", "t2"}, laneIDs(b, domain.LaneAwareness))

	_, committed := c.End()
	assert.False(t, committed)
	assert.Equal(t, before.Lanes, b.Lanes)
}

func TestController_CrossLaneMove(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1", "t2"}})
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t2"}))
	require.True(t, c.Over(LaneTarget(domain.LaneConversion)))
	// Live preview already reflects the drop.
	assert.Equal(t, []string{"t1"}, laneIDs(b, domain.LaneAwareness))
	assert.Equal(t, []string{"t2"}, laneIDs(b, domain.LaneConversion))

	commit, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, CommitMove, commit.Kind)
	assert.Equal(t, domain.LaneAwareness, commit.FromLane)
	assert.Equal(t, domain.LaneConversion, commit.ToLane)
	assert.Equal(t, 0, commit.Index)
	assert.Equal(t, domain.LaneConversion, commit.Tactic.LaneID)
	require.NoError(t, b.Validate())
}

func TestController_BoardItemOntoCardInsertsBefore(t *testing.T) {
	b := seededBoard(t, map[string][]string{
		domain.LaneAwareness:  {"t1"},
		domain.LaneConversion: {"c1", "c2"},
	})
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	require.True(t, c.Over(CardTarget("c2")))
	commit, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "t1", "c2"}, laneIDs(b, domain.LaneConversion))
	assert.Equal(t, 1, commit.Index)
}

func TestController_ReorderWithinLane(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneRetention: {"r1", "r2", "r3"}})
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "r1"}))
	require.True(t, c.Over(CardTarget("r3")))
	commit, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, []string{"r2", "r3", "r1"}, laneIDs(b, domain.LaneRetention))
	assert.Equal(t, domain.LaneRetention, commit.FromLane)
	assert.Equal(t, domain.LaneRetention, commit.ToLane)
	assert.Equal(t, 2, commit.Index)
}

func TestController_LibraryItemOntoLaneAppends(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1"}})
	tpl := domain.LibraryTactic{ID: "lib", Title: "Podcast tour", Description: "Pitch 10 podcasts", DefaultBudget: 500}
	c := NewController(b)

	require.True(t, c.Start(LibraryItem{Template: tpl}))
	assert.Empty(t, c.PreviewID())
	require.True(t, c.Over(LaneTarget(domain.LaneAwareness)))

	commit, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, CommitInsert, commit.Kind)
	assert.Equal(t, []string{"t1", "new1"}, laneIDs(b, domain.LaneAwareness))
	assert.Equal(t, 500.0, commit.Tactic.Budget)
	assert.Equal(t, "Pitch 10 podcasts", commit.Tactic.Content)
	assert.NotEqual(t, "lib", commit.Tactic.ID)
	assert.Equal(t, "lib", tpl.ID)
	assert.Equal(t, 500.0, tpl.DefaultBudget)
}

func TestController_LibraryItemOntoCardInsertsBefore(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneConversion: {"c1", "c2"}})
	c := NewController(b)

	require.True(t, c.Start(LibraryItem{Template: domain.LibraryTactic{Title: "Retargeting"}}))
	require.True(t, c.Over(CardTarget("c2")))
	_, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "new1", "c2"}, laneIDs(b, domain.LaneConversion))
}

func TestController_LibraryItemWithoutTargetCommitsNothing(t *testing.T) {
	b := seededBoard(t, nil)
	c := NewController(b)

	require.True(t, c.Start(LibraryItem{Template: domain.LibraryTactic{Title: "x"}}))
	assert.False(t, c.Over(LaneTarget("ghost")))
	_, ok := c.End()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Count())
}

func TestController_CancelRevertsSnapshot(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1", "t2"}})
	before := b.Clone()
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	require.True(t, c.Over(LaneTarget(domain.LaneRetention)))
	c.Cancel()

	assert.Equal(t, before.Lanes, b.Lanes)
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Active())

	require.True(t, c.Start(LibraryItem{Template: domain.LibraryTactic{Title: "x"}}))
	require.True(t, c.Over(LaneTarget(domain.LaneConversion)))
	c.Cancel()
	assert.Equal(t, before.Lanes, b.Lanes)
}

func TestController_IgnoresEventsOutsideSession(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1"}})
	c := NewController(b)

	assert.False(t, c.Over(LaneTarget(domain.LaneConversion)))
	_, ok := c.End()
	assert.False(t, ok)
	c.Cancel()

	assert.False(t, c.Start(BoardItem{TacticID: "missing"}))
	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	assert.False(t, c.Start(BoardItem{TacticID: "t1"}), "second start while dragging")
	assert.Equal(t, Dragging, c.State())
}

func TestController_EmptyLaneBehavesAsAppend(t *testing.T) {
	b := seededBoard(t, map[string][]string{domain.LaneAwareness: {"t1"}})
	c := NewController(b)

	require.True(t, c.Start(BoardItem{TacticID: "t1"}))
	require.True(t, c.Over(LaneTarget(domain.LaneRetention)))
	commit, ok := c.End()
	require.True(t, ok)
	assert.Equal(t, 0, commit.Index)
	assert.Equal(t, []string{"t1"}, laneIDs(b, domain.LaneRetention))
}
