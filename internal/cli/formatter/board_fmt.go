package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/alexanderramin/planboard/internal/persist"
)

const shareBarWidth = 12

// FormatBoard renders every lane with its tactics, subtotal and share of the
// grand total, followed by the save indicator.
func FormatBoard(b *board.Board, status domain.SyncStatus) string {
	if b == nil {
		return Dim("No board loaded.")
	}
	var sb strings.Builder
	total := b.GrandTotal()

	for i, lane := range b.Lanes {
		if i > 0 {
			sb.WriteString("\n")
		}
		subtotal := b.LaneTotal(lane.ID)
		share := 0.0
		if total > 0 {
			share = subtotal / total
		}
		sb.WriteString(Header(fmt.Sprintf("%s (%d)", lane.Title, len(lane.Tactics))))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s  %s\n", Bold(export.Money(subtotal)), RenderShare(share, shareBarWidth)))

		if len(lane.Tactics) == 0 {
			sb.WriteString(Dim("  (empty)") + "\n")
			continue
		}
		rows := make([][]string, len(lane.Tactics))
		for j, t := range lane.Tactics {
			title := t.Title
			if t.Content != "" {
				title += " " + StylePurple.Render("✎")
			}
			rows[j] = []string{fmt.Sprintf("%d", j+1), TruncID(t.ID), title, Budget(t.Budget)}
		}
		sb.WriteString(RenderTable([]string{"#", "ID", "TACTIC", "BUDGET"}, rows, AlignRight(0, 3)))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s   %s\n", StyleHeader.Render("TOTAL"), Bold(export.Money(total)), SyncBadge(status)))
	return sb.String()
}

// FormatTactic renders one tactic with its generated content.
func FormatTactic(t domain.Tactic, laneTitle string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", Dim("ID:    "), t.ID))
	sb.WriteString(fmt.Sprintf("%s %s\n", Dim("Lane:  "), laneTitle))
	sb.WriteString(fmt.Sprintf("%s %s\n", Dim("Budget:"), Budget(t.Budget)))
	if t.Content != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(t.Content))
	} else {
		sb.WriteString("\n" + Dim("No content yet. Try `planboard tactic write`."))
	}
	return RenderBox(t.Title, sb.String())
}

// FormatLibrary renders library templates as a table.
func FormatLibrary(items []*domain.LibraryTactic) string {
	if len(items) == 0 {
		return Dim("Library is empty.")
	}
	rows := make([][]string, len(items))
	for i, l := range items {
		rows[i] = []string{l.ID, l.Title, CategoryBadge(l.Category), Budget(l.DefaultBudget)}
	}
	return RenderTable([]string{"ID", "TITLE", "CATEGORY", "DEFAULT"}, rows, AlignRight(3))
}

// FormatFailures lists saves that did not reach the store.
func FormatFailures(failures []persist.Failure) string {
	if len(failures) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(StyleRed.Render(fmt.Sprintf("%d change(s) were not saved:", len(failures))))
	sb.WriteString("\n")
	for _, f := range failures {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			StyleRed.Render("✖"),
			Bold(f.Mutation.Kind()),
			Dim(fmt.Sprintf("%s: %v", shortID(f.Mutation.ItemID()), f.Err)),
		))
	}
	sb.WriteString(Dim("Run `planboard board reload` to fetch the saved board."))
	sb.WriteString("\n")
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
