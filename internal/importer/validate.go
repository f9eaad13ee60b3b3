package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// ValidatePlan checks plan against the board's lanes before conversion.
// Returns every problem found.
func ValidatePlan(plan *PlanImport, lanes []domain.Lane) []error {
	var errs []error
	if len(plan.Sections) == 0 {
		errs = append(errs, fmt.Errorf("sections: plan has no sections"))
	}
	for i, s := range plan.Sections {
		prefix := fmt.Sprintf("sections[%d]", i)
		if _, ok := matchLane(s, lanes); !ok {
			name := s.LaneID
			if name == "" {
				name = s.Title
			}
			errs = append(errs, fmt.Errorf("%s: unknown lane %q", prefix, name))
		}
		for j, it := range s.Items {
			if strings.TrimSpace(it.Title) == "" {
				errs = append(errs, fmt.Errorf("%s.items[%d].title is required", prefix, j))
			}
		}
	}
	return errs
}

// matchLane resolves a section to a lane id, preferring lane_id over title.
func matchLane(s SectionImport, lanes []domain.Lane) (string, bool) {
	if s.LaneID != "" {
		for _, l := range lanes {
			if l.ID == s.LaneID {
				return l.ID, true
			}
		}
		return "", false
	}
	for _, l := range lanes {
		if strings.EqualFold(l.Title, strings.TrimSpace(s.Title)) {
			return l.ID, true
		}
	}
	return "", false
}
