package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/dragdrop"
	"github.com/alexanderramin/planboard/internal/persist"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/testutil"
)

// TestBoardSession_SQLiteRoundtrip drives a session against the real store
// and checks a fresh session sees the same board.
func TestBoardSession_SQLiteRoundtrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	newSession := func() *BoardSession {
		store := repository.NewSQLiteTacticStore(database)
		s := NewBoardSession(SessionDeps{
			Store:   store,
			Lanes:   repository.NewSQLiteLaneRepo(database),
			Library: repository.NewSQLiteLibraryRepo(database),
			Syncer:  persist.NewSyncer(store, persist.NewIndicator(0)),
		})
		require.NoError(t, s.Load(ctx))
		return s
	}

	s := newSession()
	seo, err := s.AddTactic(domain.LaneAwareness, "SEO Sprint", 2000, "")
	require.NoError(t, err)
	blog, err := s.InsertFromLibrary(ctx, "lib-blog-series", domain.LaneAwareness, 0)
	require.NoError(t, err)
	s.Wait()

	require.True(t, s.BeginDrag(dragdrop.BoardItem{TacticID: seo.ID}))
	require.True(t, s.DragOver(dragdrop.LaneTarget(domain.LaneConversion)))
	_, ok := s.EndDrag()
	require.True(t, ok)
	_, ok = s.SetBudget(blog.ID, "2500")
	require.True(t, ok)
	s.Wait()
	require.Equal(t, domain.SyncSynced, s.Status())
	require.Empty(t, s.Failures())

	fresh := newSession().Board()
	laneID, _, found := fresh.Locate(seo.ID)
	require.True(t, found)
	assert.Equal(t, domain.LaneConversion, laneID)
	got, _ := fresh.Tactic(blog.ID)
	assert.Equal(t, 2500.0, got.Budget)
	assert.Equal(t, 4500.0, fresh.GrandTotal())

	assert.True(t, s.DeleteTactic(seo.ID))
	assert.False(t, s.DeleteTactic(seo.ID))
	s.Wait()
	assert.Equal(t, domain.SyncSynced, s.Status())
	assert.Equal(t, 1, newSession().Board().Count())
}

func TestBoardSession_RapidSavesOnFileDatabase(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	store := repository.NewSQLiteTacticStore(database)
	s := NewBoardSession(SessionDeps{
		Store:   store,
		Lanes:   repository.NewSQLiteLaneRepo(database),
		Library: repository.NewSQLiteLibraryRepo(database),
		Syncer:  persist.NewSyncer(store, persist.NewIndicator(0)),
	})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	lanes := []string{domain.LaneAwareness, domain.LaneConversion, domain.LaneRetention}
	for i := 0; i < 40; i++ {
		_, err := s.AddTactic(lanes[i%len(lanes)], fmt.Sprintf("Tactic %d", i), float64(i), "")
		require.NoError(t, err)
	}
	s.Wait()

	require.Empty(t, s.Failures())
	assert.Equal(t, domain.SyncSynced, s.Status())
	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 40)
}
