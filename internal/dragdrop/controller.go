// Package dragdrop turns a drag gesture into live preview reshapes of a board
// and a single commit at the end.
package dragdrop

import (
	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/domain"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type CommitKind int

const (
	CommitMove CommitKind = iota + 1
	CommitInsert
)

func (k CommitKind) String() string {
	switch k {
	case CommitMove:
		return "move"
	case CommitInsert:
		return "insert"
	default:
		return "none"
	}
}

// Commit is the final outcome of a drag session, ready to be persisted.
type Commit struct {
	Kind     CommitKind
	Tactic   domain.Tactic
	FromLane string // empty for inserts
	ToLane   string
	Index    int
}

// Controller drives one drag session at a time over a shared board. Every
// transition is synchronous; Over only touches the source and destination
// lanes.
type Controller struct {
	board *board.Board
	state State

	snapshot *board.Board
	active   Payload

	previewID   string
	originLane  string
	originIndex int
}

// NewController creates an idle controller over b.
func NewController(b *board.Board) *Controller {
	return &Controller{board: b}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active returns the payload being dragged, or nil when idle.
func (c *Controller) Active() Payload { return c.active }

// PreviewID returns the id of the tactic currently shown as dragged. For a
// library payload it is empty until the first valid Over.
func (c *Controller) PreviewID() string { return c.previewID }

// Start begins a session. It reports false when a session is already active
// or a board payload names an unknown tactic.
func (c *Controller) Start(p Payload) bool {
	if c.state != Idle {
		return false
	}
	switch p := p.(type) {
	case BoardItem:
		lane, idx, ok := c.board.Locate(p.TacticID)
		if !ok {
			return false
		}
		c.previewID = p.TacticID
		c.originLane, c.originIndex = lane, idx
	case LibraryItem:
		c.previewID = ""
		c.originLane, c.originIndex = "", -1
	default:
		return false
	}
	c.snapshot = c.board.Clone()
	c.active = p
	c.state = Dragging
	return true
}

// Over reshapes the board as if the payload had been dropped on target. It
// reports whether the board changed.
func (c *Controller) Over(target Target) bool {
	if c.state != Dragging {
		return false
	}
	if target.isCard() && target.TacticID == c.previewID {
		return false
	}
	destLane, destIdx, ok := c.resolve(target)
	if !ok {
		return false
	}

	switch p := c.active.(type) {
	case LibraryItem:
		if c.previewID == "" {
			t, ok := c.board.InsertFromTemplate(p.Template, destLane, destIdx)
			if !ok {
				return false
			}
			c.previewID = t.ID
			return true
		}
		return c.movePreview(destLane, destIdx)
	case BoardItem:
		return c.movePreview(destLane, destIdx)
	}
	return false
}

// End finishes the session. The final lane and index are read off the
// current preview. Dropping a board item back where it started, or a library
// item that never hovered a valid target, restores the snapshot and yields
// no commit.
func (c *Controller) End() (Commit, bool) {
	if c.state != Dragging {
		return Commit{}, false
	}
	defer c.reset()

	if c.previewID == "" {
		c.board.Restore(c.snapshot)
		return Commit{}, false
	}
	lane, idx, ok := c.board.Locate(c.previewID)
	if !ok {
		c.board.Restore(c.snapshot)
		return Commit{}, false
	}
	t, _ := c.board.Tactic(c.previewID)

	switch c.active.(type) {
	case BoardItem:
		if lane == c.originLane && idx == c.originIndex {
			c.board.Restore(c.snapshot)
			return Commit{}, false
		}
		return Commit{Kind: CommitMove, Tactic: t, FromLane: c.originLane, ToLane: lane, Index: idx}, true
	case LibraryItem:
		return Commit{Kind: CommitInsert, Tactic: t, ToLane: lane, Index: idx}, true
	}
	c.board.Restore(c.snapshot)
	return Commit{}, false
}

// Cancel abandons the session and reverts the board to the drag-start
// snapshot. It always succeeds.
func (c *Controller) Cancel() {
	if c.state != Dragging {
		return
	}
	c.board.Restore(c.snapshot)
	c.reset()
}

// resolve maps a target to a destination lane and insertion index. A lane
// target resolves to index -1, meaning append.
func (c *Controller) resolve(target Target) (string, int, bool) {
	if target.isCard() {
		lane, idx, ok := c.board.Locate(target.TacticID)
		return lane, idx, ok
	}
	if target.LaneID == "" || !c.board.HasLane(target.LaneID) {
		return "", 0, false
	}
	return target.LaneID, -1, true
}

func (c *Controller) movePreview(destLane string, destIdx int) bool {
	curLane, curIdx, ok := c.board.Locate(c.previewID)
	if !ok {
		return false
	}
	if curLane == destLane {
		// Hovering the card's own lane container keeps it where it is.
		if destIdx < 0 || destIdx == curIdx {
			return false
		}
		return c.board.MoveWithinLane(curLane, curIdx, destIdx)
	}
	return c.board.MoveAcrossLanes(curLane, destLane, c.previewID, destIdx)
}

func (c *Controller) reset() {
	c.state = Idle
	c.active = nil
	c.snapshot = nil
	c.previewID = ""
	c.originLane = ""
	c.originIndex = -1
}
