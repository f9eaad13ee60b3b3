package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/dragdrop"
	"github.com/alexanderramin/planboard/internal/intelligence"
	"github.com/alexanderramin/planboard/internal/persist"
	"github.com/alexanderramin/planboard/internal/repository"
)

// SessionDeps are the collaborators of a BoardSession. Suggestions and
// Content may be nil when no model is configured.
type SessionDeps struct {
	Store       repository.RemoteStore
	Lanes       repository.LaneRepo
	Library     repository.LibraryRepo
	Syncer      *persist.Syncer
	Suggestions intelligence.SuggestionService
	Content     intelligence.ContentService
	Logger      *slog.Logger
	Observer    UseCaseObserver
	BoardOpts   []board.Option
}

// BoardSession owns the in-memory board for one user and pairs every
// committed change with exactly one remote store call. Changes are applied
// locally first and never rolled back.
type BoardSession struct {
	mu sync.Mutex

	board *board.Board
	drag  *dragdrop.Controller

	store       repository.RemoteStore
	lanes       repository.LaneRepo
	library     repository.LibraryRepo
	syncer      *persist.Syncer
	suggestions intelligence.SuggestionService
	content     intelligence.ContentService
	logger      *slog.Logger
	observer    UseCaseObserver
	boardOpts   []board.Option
}

// NewBoardSession wires a session. Call Load before using it.
func NewBoardSession(deps SessionDeps) *BoardSession {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	syncer := deps.Syncer
	if syncer == nil {
		syncer = persist.NewSyncer(deps.Store, persist.NewIndicator(persist.DefaultSettleDelay), persist.WithLogger(logger))
	}
	return &BoardSession{
		store:       deps.Store,
		lanes:       deps.Lanes,
		library:     deps.Library,
		syncer:      syncer,
		suggestions: deps.Suggestions,
		content:     deps.Content,
		logger:      logger,
		observer:    firstObserver(deps.Observer),
		boardOpts:   append([]board.Option{board.WithRankCollisionHook(rankCollisionLogger(logger))}, deps.BoardOpts...),
	}
}

func rankCollisionLogger(logger *slog.Logger) func(string, domain.Tactic) {
	return func(laneID string, t domain.Tactic) {
		logger.Warn("rank gap exhausted, order against neighbour falls back to creation time",
			"lane_id", laneID, "tactic_id", t.ID, "rank", t.Rank)
	}
}

// Load fetches lanes and tactics and replaces the in-memory board. Tactics
// that reference an unknown lane or repeat an id are left out and logged.
func (s *BoardSession) Load(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "board-load", fields)(&err)

	lanes, err := s.lanes.ListLanes(ctx)
	if err != nil {
		return fmt.Errorf("listing lanes: %w", err)
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("listing tactics: %w", err)
	}

	b, orphans := board.FromTactics(lanes, items, s.boardOpts...)
	for _, o := range orphans {
		s.logger.Warn("skipping tactic on load", "tactic_id", o.ID, "lane_id", o.LaneID)
	}
	if err = b.Validate(); err != nil {
		return fmt.Errorf("loaded board is inconsistent: %w", err)
	}
	fields["tactics"] = b.Count()
	fields["orphans"] = len(orphans)

	s.mu.Lock()
	if s.drag != nil {
		s.drag.Cancel()
	}
	s.board = b
	s.drag = dragdrop.NewController(b)
	s.mu.Unlock()
	return nil
}

// Reload waits for in-flight saves, forgets recorded failures and fetches
// the authoritative board again. It is the manual reconcile after an error.
func (s *BoardSession) Reload(ctx context.Context) error {
	s.syncer.Wait()
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.syncer.ClearFailures()
	return nil
}

// Board returns a copy of the current board, or nil before Load.
func (s *BoardSession) Board() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return nil
	}
	return s.board.Clone()
}

// Status returns the sync indicator state.
func (s *BoardSession) Status() domain.SyncStatus {
	return s.syncer.Indicator().Status()
}

// Indicator exposes the sync indicator for subscription.
func (s *BoardSession) Indicator() *persist.Indicator {
	return s.syncer.Indicator()
}

// Failures lists saves that failed since the last reload.
func (s *BoardSession) Failures() []persist.Failure {
	return s.syncer.Failures()
}

// Wait blocks until every issued save has finished.
func (s *BoardSession) Wait() {
	s.syncer.Wait()
}

// AddTactic appends a new tactic to laneID.
func (s *BoardSession) AddTactic(laneID, title string, budget float64, content string) (domain.Tactic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Tactic{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return domain.Tactic{}, err
	}
	if !s.board.HasLane(laneID) {
		return domain.Tactic{}, fmt.Errorf("%w: %s", ErrUnknownLane, laneID)
	}

	t := s.board.NewTactic(laneID, title, budget, content)
	s.board.Insert(t, -1)
	placed, _ := s.board.Tactic(t.ID)
	s.syncer.Submit(persist.Insert{Tactic: placed})
	return placed, nil
}

// EditTactic applies patch. It reports false, and issues no save, when the
// tactic is unknown or nothing changed.
func (s *BoardSession) EditTactic(id string, patch domain.TacticPatch) (domain.Tactic, bool) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			patch.Title = nil
		} else {
			patch.Title = &trimmed
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editableLocked() != nil || patch.Empty() {
		return domain.Tactic{}, false
	}
	t, ok := s.board.UpdateFields(id, patch)
	if !ok {
		return t, false
	}
	s.syncer.Submit(persist.Update{ID: t.ID, Fields: repository.FieldsOf(t)})
	return t, true
}

// SetBudget parses raw as a budget, coercing anything invalid to 0.
func (s *BoardSession) SetBudget(id, raw string) (domain.Tactic, bool) {
	budget := domain.ParseBudget(raw)
	return s.EditTactic(id, domain.TacticPatch{Budget: &budget})
}

// DeleteTactic removes a tactic. Deleting an id that is already gone is a
// no-op that issues no save.
func (s *BoardSession) DeleteTactic(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editableLocked() != nil {
		return false
	}
	if _, ok := s.board.RemoveTactic(id); !ok {
		return false
	}
	s.syncer.Submit(persist.Delete{ID: id})
	return true
}

// MoveTactic places a tactic at dstIndex in dstLaneID. A negative or
// out-of-range index appends. Moves that leave the tactic where it was
// issue no save.
func (s *BoardSession) MoveTactic(id, dstLaneID string, dstIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editableLocked() != nil {
		return false
	}
	src, _, ok := s.board.Locate(id)
	if !ok {
		return false
	}
	if !s.board.MoveAcrossLanes(src, dstLaneID, id, dstIndex) {
		return false
	}
	t, _ := s.board.Tactic(id)
	s.syncer.Submit(persist.Move{ID: t.ID, LaneID: t.LaneID, Rank: t.Rank})
	return true
}

// InsertFromLibrary instantiates a library template into laneID at index.
func (s *BoardSession) InsertFromLibrary(ctx context.Context, templateID, laneID string, index int) (domain.Tactic, error) {
	if s.library == nil {
		return domain.Tactic{}, fmt.Errorf("library not configured")
	}
	tpl, err := s.library.GetByID(ctx, templateID)
	if err != nil {
		return domain.Tactic{}, fmt.Errorf("loading library tactic %s: %w", templateID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return domain.Tactic{}, err
	}
	t, ok := s.board.InsertFromTemplate(*tpl, laneID, index)
	if !ok {
		return domain.Tactic{}, fmt.Errorf("%w: %s", ErrUnknownLane, laneID)
	}
	s.syncer.Submit(persist.Insert{Tactic: t})
	return t, nil
}

// BeginDrag starts a drag session for p.
func (s *BoardSession) BeginDrag(p dragdrop.Payload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readyLocked() != nil {
		return false
	}
	return s.drag.Start(p)
}

// DragOver reshapes the preview for target.
func (s *BoardSession) DragOver(target dragdrop.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readyLocked() != nil {
		return false
	}
	return s.drag.Over(target)
}

// EndDrag commits the preview and issues its single save.
func (s *BoardSession) EndDrag() (dragdrop.Commit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readyLocked() != nil {
		return dragdrop.Commit{}, false
	}
	c, ok := s.drag.End()
	if !ok {
		return c, false
	}
	switch c.Kind {
	case dragdrop.CommitMove:
		s.syncer.Submit(persist.Move{ID: c.Tactic.ID, LaneID: c.ToLane, Rank: c.Tactic.Rank})
	case dragdrop.CommitInsert:
		s.syncer.Submit(persist.Insert{Tactic: c.Tactic})
	}
	return c, true
}

// CancelDrag reverts the board to the drag-start snapshot.
func (s *BoardSession) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag != nil {
		s.drag.Cancel()
	}
}

// DragState reports the drag controller state.
func (s *BoardSession) DragState() dragdrop.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return dragdrop.Idle
	}
	return s.drag.State()
}

// DragPreviewID returns the id of the card being dragged, or "" when idle
// or before a library payload has hovered a lane.
func (s *BoardSession) DragPreviewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return ""
	}
	return s.drag.PreviewID()
}

// GeneratePlan asks for suggestions and deals them round-robin across the
// lanes, one insert each. No suggestions means no change.
func (s *BoardSession) GeneratePlan(ctx context.Context, description string) (added []domain.Tactic, err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "generate-plan", fields)(&err)

	if s.suggestions == nil {
		return nil, nil
	}
	suggestions := s.suggestions.Suggest(ctx, description)
	fields["suggestions"] = len(suggestions)
	if len(suggestions) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.editableLocked(); err != nil {
		return nil, err
	}
	lanes := s.board.Lanes
	if len(lanes) == 0 {
		return nil, nil
	}
	for i, sg := range suggestions {
		laneID := lanes[i%len(lanes)].ID
		t := s.board.NewTactic(laneID, sg.Title, sg.Budget, "")
		if !s.board.Insert(t, -1) {
			continue
		}
		placed, _ := s.board.Tactic(t.ID)
		s.syncer.Submit(persist.Insert{Tactic: placed})
		added = append(added, placed)
	}
	fields["added"] = len(added)
	return added, nil
}

// GenerateContent drafts execution content for a tactic and stores it. It
// reports false when the tactic is unknown or the model produced nothing.
func (s *BoardSession) GenerateContent(ctx context.Context, id, instructions string) (domain.Tactic, bool) {
	if s.content == nil {
		return domain.Tactic{}, false
	}
	s.mu.Lock()
	if s.readyLocked() != nil {
		s.mu.Unlock()
		return domain.Tactic{}, false
	}
	t, ok := s.board.Tactic(id)
	s.mu.Unlock()
	if !ok {
		return domain.Tactic{}, false
	}

	text := s.content.Generate(ctx, t.Title, t.Budget, instructions)
	if text == "" {
		return t, false
	}
	return s.EditTactic(id, domain.TacticPatch{Content: &text})
}

func (s *BoardSession) readyLocked() error {
	if s.board == nil {
		return ErrNotLoaded
	}
	return nil
}

// editableLocked is readyLocked for direct edits. An open drag is cancelled
// first so its snapshot never outlives a change made outside the drag.
func (s *BoardSession) editableLocked() error {
	if err := s.readyLocked(); err != nil {
		return err
	}
	s.drag.Cancel()
	return nil
}
