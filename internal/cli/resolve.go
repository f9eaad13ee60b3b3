package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/board"
)

// resolveTacticID matches input against tactic ids, id prefixes and titles.
func resolveTacticID(b *board.Board, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("tactic ID is required")
	}

	// 1. Exact id
	if _, ok := b.Tactic(input); ok {
		return input, nil
	}

	// 2. Id prefix, then 3. case-insensitive title
	var byPrefix, byTitle []string
	for _, lane := range b.Lanes {
		for _, t := range lane.Tactics {
			if strings.HasPrefix(t.ID, input) {
				byPrefix = append(byPrefix, t.ID)
			}
			if strings.EqualFold(t.Title, input) {
				byTitle = append(byTitle, t.ID)
			}
		}
	}

	for _, matches := range [][]string{byPrefix, byTitle} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return "", fmt.Errorf("tactic %q is ambiguous (%d matches)", input, len(matches))
		}
	}
	return "", fmt.Errorf("tactic not found: %q", input)
}

// resolveLaneID matches input against lane ids, titles and unique prefixes.
func resolveLaneID(b *board.Board, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("lane is required (one of %s)", laneNames(b))
	}
	var matches []string
	for _, lane := range b.Lanes {
		if lane.ID == input || strings.EqualFold(lane.Title, input) {
			return lane.ID, nil
		}
		if strings.HasPrefix(strings.ToLower(lane.ID), strings.ToLower(input)) {
			matches = append(matches, lane.ID)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return "", fmt.Errorf("unknown lane %q (one of %s)", input, laneNames(b))
}

func laneNames(b *board.Board) string {
	names := make([]string, len(b.Lanes))
	for i, l := range b.Lanes {
		names[i] = l.ID
	}
	return strings.Join(names, ", ")
}
