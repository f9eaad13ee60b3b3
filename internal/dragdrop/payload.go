package dragdrop

import "github.com/alexanderramin/planboard/internal/domain"

// Payload is the thing being dragged. The set of implementations is closed:
// BoardItem and LibraryItem.
type Payload interface {
	isPayload()
}

// BoardItem drags an existing tactic.
type BoardItem struct {
	TacticID string
}

// LibraryItem drags a library template that is instantiated on drop.
type LibraryItem struct {
	Template domain.LibraryTactic
}

func (BoardItem) isPayload()   {}
func (LibraryItem) isPayload() {}

// Target is a candidate drop location: either a lane container or a card.
// When TacticID is set the lane is inferred from the card.
type Target struct {
	LaneID   string
	TacticID string
}

// LaneTarget names a lane container as the drop target.
func LaneTarget(laneID string) Target { return Target{LaneID: laneID} }

// CardTarget names a card as the drop target.
func CardTarget(tacticID string) Target { return Target{TacticID: tacticID} }

func (t Target) isCard() bool { return t.TacticID != "" }
