package importer

import (
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// Entry is one tactic ready to be added to a lane.
type Entry struct {
	LaneID  string
	Title   string
	Budget  float64
	Content string
}

// Convert flattens a validated plan into entries in file order.
// Call ValidatePlan first; sections naming unknown lanes are skipped.
func Convert(plan *PlanImport, lanes []domain.Lane) []Entry {
	var out []Entry
	for _, s := range plan.Sections {
		laneID, ok := matchLane(s, lanes)
		if !ok {
			continue
		}
		for _, it := range s.Items {
			out = append(out, Entry{
				LaneID:  laneID,
				Title:   strings.TrimSpace(it.Title),
				Budget:  it.Budget.Float(),
				Content: it.Content,
			})
		}
	}
	return out
}
