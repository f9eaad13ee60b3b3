package board

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func defaultLanes() []domain.Lane {
	return []domain.Lane{
		{ID: domain.LaneAwareness, Title: "Awareness", Position: 0},
		{ID: domain.LaneConversion, Title: "Conversion", Position: 1},
		{ID: domain.LaneRetention, Title: "Retention", Position: 2},
	}
}

func newTestBoard() *Board {
	n := 0
	return New(defaultLanes(),
		WithClock(func() time.Time { return testNow }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
	)
}

func ids(l domain.Lane) []string {
	out := make([]string, len(l.Tactics))
	for i, t := range l.Tactics {
		out[i] = t.ID
	}
	return out
}

func mustLane(t *testing.T, b *Board, id string) domain.Lane {
	t.Helper()
	l, ok := b.Lane(id)
	require.True(t, ok, "lane %s", id)
	return l
}

func TestNew_OrdersLanesByPosition(t *testing.T) {
	lanes := defaultLanes()
	lanes[0], lanes[2] = lanes[2], lanes[0]
	b := New(lanes)
	assert.Equal(t, domain.LaneAwareness, b.Lanes[0].ID)
	assert.Equal(t, domain.LaneRetention, b.Lanes[2].ID)
}

func TestMoveAcrossLanes_ToEmptyLane(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "T1", 10, ""), -1))
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "T2", 20, ""), -1))
	aw := mustLane(t, b, domain.LaneAwareness)
	t2ID := aw.Tactics[1].ID

	require.True(t, b.MoveAcrossLanes(domain.LaneAwareness, domain.LaneConversion, t2ID, 0))

	assert.Len(t, mustLane(t, b, domain.LaneAwareness).Tactics, 1)
	conv := mustLane(t, b, domain.LaneConversion)
	require.Len(t, conv.Tactics, 1)
	assert.Equal(t, t2ID, conv.Tactics[0].ID)
	assert.Equal(t, domain.LaneConversion, conv.Tactics[0].LaneID)
	require.NoError(t, b.Validate())
}

func TestMoveAcrossLanes_OutOfRangeAppends(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 0, ""), -1))
	require.True(t, b.Insert(b.NewTactic(domain.LaneConversion, "B", 0, ""), -1))
	aID := mustLane(t, b, domain.LaneAwareness).Tactics[0].ID

	require.True(t, b.MoveAcrossLanes(domain.LaneAwareness, domain.LaneConversion, aID, 99))
	conv := mustLane(t, b, domain.LaneConversion)
	assert.Equal(t, aID, conv.Tactics[1].ID)
	assert.Greater(t, conv.Tactics[1].Rank, conv.Tactics[0].Rank)
}

func TestMoveAcrossLanes_UnknownIDsAreNoOps(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 0, ""), -1))
	before := b.Clone()

	assert.False(t, b.MoveAcrossLanes(domain.LaneAwareness, "nope", "t1", 0))
	assert.False(t, b.MoveAcrossLanes("nope", domain.LaneAwareness, "t1", 0))
	assert.False(t, b.MoveAcrossLanes(domain.LaneConversion, domain.LaneAwareness, "t1", 0))
	assert.Equal(t, before.Lanes, b.Lanes)
}

func TestMoveWithinLane(t *testing.T) {
	b := newTestBoard()
	for _, title := range []string{"A", "B", "C"} {
		require.True(t, b.Insert(b.NewTactic(domain.LaneRetention, title, 0, ""), -1))
	}

	assert.False(t, b.MoveWithinLane(domain.LaneRetention, 1, 1), "same index is a no-op")
	assert.False(t, b.MoveWithinLane(domain.LaneRetention, 0, 5))

	require.True(t, b.MoveWithinLane(domain.LaneRetention, 0, 2))
	l := mustLane(t, b, domain.LaneRetention)
	assert.Equal(t, []string{"t2", "t3", "t1"}, ids(l))
	assert.Len(t, l.Tactics, 3)
	assert.Less(t, l.Tactics[1].Rank, l.Tactics[2].Rank)

	require.True(t, b.MoveWithinLane(domain.LaneRetention, 2, 0))
	l = mustLane(t, b, domain.LaneRetention)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(l))
	assert.Less(t, l.Tactics[0].Rank, l.Tactics[1].Rank)
}

func TestInsert_RejectsDuplicatesAndUnknownLanes(t *testing.T) {
	b := newTestBoard()
	tac := b.NewTactic(domain.LaneAwareness, "A", 0, "")
	require.True(t, b.Insert(tac, -1))
	assert.False(t, b.Insert(tac, -1))

	tac2 := b.NewTactic("ghost", "B", 0, "")
	assert.False(t, b.Insert(tac2, -1))
	assert.Equal(t, 1, b.Count())
}

func TestInsertFromTemplate(t *testing.T) {
	b := newTestBoard()
	tpl := domain.LibraryTactic{ID: "lib-1", Title: "Webinar", Description: "Host a webinar", DefaultBudget: 500, Category: "events"}
	tplBefore := tpl

	tac, ok := b.InsertFromTemplate(tpl, domain.LaneAwareness, -1)
	require.True(t, ok)
	assert.NotEqual(t, tpl.ID, tac.ID)
	assert.Equal(t, 500.0, tac.Budget)
	assert.Equal(t, "Host a webinar", tac.Content)
	assert.Equal(t, domain.LaneAwareness, tac.LaneID)
	assert.Equal(t, tplBefore, tpl)

	_, ok = b.InsertFromTemplate(tpl, "ghost", -1)
	assert.False(t, ok)
}

func TestRemoveTactic_Idempotent(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 0, ""), -1))
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "B", 0, ""), -1))

	_, ok := b.RemoveTactic("t1")
	require.True(t, ok)
	once := b.Clone()

	_, ok = b.RemoveTactic("t1")
	assert.False(t, ok)
	assert.Equal(t, once.Lanes, b.Lanes)
}

func TestUpdateFields_PreservesPosition(t *testing.T) {
	b := newTestBoard()
	for _, title := range []string{"A", "B", "C"} {
		require.True(t, b.Insert(b.NewTactic(domain.LaneConversion, title, 0, ""), -1))
	}
	title := "B2"
	content := "Do it"
	updated, ok := b.UpdateFields("t2", domain.TacticPatch{Title: &title, Content: &content})
	require.True(t, ok)
	assert.Equal(t, "B2", updated.Title)

	_, idx, _ := b.Locate("t2")
	assert.Equal(t, 1, idx)

	_, ok = b.UpdateFields("t2", domain.TacticPatch{Title: &title})
	assert.False(t, ok, "unchanged patch reports no change")
	_, ok = b.UpdateFields("missing", domain.TacticPatch{Title: &title})
	assert.False(t, ok)
}

func TestTotals_CoerceBadBudgets(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 100, ""), -1))
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "B", 0, ""), -1))
	require.True(t, b.Insert(b.NewTactic(domain.LaneRetention, "C", 50, ""), -1))

	assert.True(t, b.UpdateBudget("t1", domain.ParseBudget("not a number")))
	assert.False(t, b.UpdateBudget("t2", math.NaN()), "NaN coerces to the existing 0")

	assert.Equal(t, 0.0, b.LaneTotal(domain.LaneAwareness))
	assert.Equal(t, 50.0, b.GrandTotal())
	assert.False(t, math.IsNaN(b.GrandTotal()))
	assert.Equal(t, 0.0, b.LaneTotal("ghost"))
}

func TestFromTactics_OrdersByRankAndReportsOrphans(t *testing.T) {
	tactics := []domain.Tactic{
		{ID: "b", LaneID: domain.LaneAwareness, Rank: 2048},
		{ID: "a", LaneID: domain.LaneAwareness, Rank: 1024},
		{ID: "x", LaneID: "ghost", Rank: 1},
		{ID: "a", LaneID: domain.LaneRetention, Rank: 1},
		{ID: "c", LaneID: domain.LaneRetention, Rank: 5, Budget: -3},
	}
	b, orphans := FromTactics(defaultLanes(), tactics)
	assert.Equal(t, []string{"a", "b"}, ids(mustLane(t, b, domain.LaneAwareness)))
	assert.Equal(t, []string{"c"}, ids(mustLane(t, b, domain.LaneRetention)))
	require.Len(t, orphans, 2)
	assert.Equal(t, "ghost", orphans[0].LaneID)
	assert.Equal(t, domain.LaneRetention, orphans[1].LaneID, "the later copy of a repeated id is dropped even with a lower rank")
	assert.Equal(t, 0.0, b.LaneTotal(domain.LaneRetention))
	require.NoError(t, b.Validate())
}

func TestValidate_DetectsBrokenPartition(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 0, ""), -1))
	b.Lanes[0].Tactics[0].LaneID = domain.LaneConversion
	assert.Error(t, b.Validate())

	b.Lanes[0].Tactics[0].LaneID = domain.LaneAwareness
	b.Lanes[1].Tactics = append(b.Lanes[1].Tactics, b.Lanes[0].Tactics[0])
	assert.Error(t, b.Validate())
}

func TestClone_IsIndependent(t *testing.T) {
	b := newTestBoard()
	require.True(t, b.Insert(b.NewTactic(domain.LaneAwareness, "A", 0, ""), -1))
	snap := b.Clone()
	require.True(t, b.UpdateBudget("t1", 99))
	got, _ := snap.Tactic("t1")
	assert.Equal(t, 0.0, got.Budget)

	b.Restore(snap)
	got, _ = b.Tactic("t1")
	assert.Equal(t, 0.0, got.Budget)
}

// TestPartitionInvariant_RandomOperations property-tests that any sequence of
// moves, inserts and deletes keeps every live tactic in exactly one lane.
func TestPartitionInvariant_RandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	laneIDs := domain.DefaultLaneOrder

	for trial := 0; trial < 100; trial++ {
		b := newTestBoard()
		live := map[string]bool{}

		for step := 0; step < 60; step++ {
			switch rng.Intn(5) {
			case 0, 1:
				tac := b.NewTactic(laneIDs[rng.Intn(3)], "x", float64(rng.Intn(1000)), "")
				if b.Insert(tac, rng.Intn(6)-1) {
					live[tac.ID] = true
				}
			case 2:
				if id := pickLive(rng, live); id != "" {
					src, _, _ := b.Locate(id)
					b.MoveAcrossLanes(src, laneIDs[rng.Intn(3)], id, rng.Intn(6)-1)
				}
			case 3:
				lane := laneIDs[rng.Intn(3)]
				b.MoveWithinLane(lane, rng.Intn(5), rng.Intn(5))
			case 4:
				if id := pickLive(rng, live); id != "" {
					_, ok := b.RemoveTactic(id)
					assert.True(t, ok)
					delete(live, id)
				}
			}

			require.NoError(t, b.Validate(), "trial %d step %d", trial, step)
			assert.Equal(t, len(live), b.Count(), "trial %d step %d", trial, step)
			for id := range live {
				_, _, ok := b.Locate(id)
				assert.True(t, ok, "trial %d: live tactic %s missing", trial, id)
			}
		}
	}
}

func pickLive(rng *rand.Rand, live map[string]bool) string {
	if len(live) == 0 {
		return ""
	}
	keys := make([]string, 0, len(live))
	for k := range live {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort for a reproducible pick.
	sort.Strings(keys)
	return keys[rng.Intn(len(keys))]
}

func TestInsert_ReportsExhaustedRankGap(t *testing.T) {
	var hits []string
	hook := WithRankCollisionHook(func(laneID string, tac domain.Tactic) {
		hits = append(hits, laneID+"/"+tac.ID)
	})
	b, _ := FromTactics(defaultLanes(), []domain.Tactic{
		{ID: "a", LaneID: domain.LaneAwareness, Rank: 1},
		{ID: "b", LaneID: domain.LaneAwareness, Rank: math.Nextafter(1, 2)},
	}, hook)

	require.True(t, b.Insert(domain.Tactic{ID: "wide", LaneID: domain.LaneAwareness}, 0))
	assert.Empty(t, hits, "an end placement always has room")

	require.True(t, b.Insert(domain.Tactic{ID: "squeezed", LaneID: domain.LaneAwareness}, 2))
	assert.Equal(t, []string{"awareness/squeezed"}, hits)
	assert.Equal(t, []string{"wide", "a", "squeezed", "b"}, ids(mustLane(t, b, domain.LaneAwareness)))

	c := b.Clone()
	require.True(t, c.MoveWithinLane(domain.LaneAwareness, 0, 2))
	assert.Len(t, hits, 2, "clones keep the hook")
}
