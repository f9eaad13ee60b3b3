package domain

// Lane is an ordered column of tactics for one campaign phase.
type Lane struct {
	ID       string
	Title    string
	Position int
	Tactics  []Tactic
}

// Total returns the coerced budget sum of the lane.
func (l *Lane) Total() float64 {
	var total float64
	for i := range l.Tactics {
		total += CoerceBudget(l.Tactics[i].Budget)
	}
	return total
}

// IndexOf returns the position of tacticID in the lane, or -1.
func (l *Lane) IndexOf(tacticID string) int {
	for i := range l.Tactics {
		if l.Tactics[i].ID == tacticID {
			return i
		}
	}
	return -1
}
