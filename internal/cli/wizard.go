package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// planboardHuhTheme paints huh forms in the formatter palette.
func planboardHuhTheme() *huh.Theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	accent, text, dim := fg(formatter.ColorHeader), fg(formatter.ColorFg), fg(formatter.ColorDim)

	t := huh.ThemeBase()
	f := &t.Focused
	f.Title = accent.Bold(true)
	f.SelectSelector, f.TextInput.Cursor, f.TextInput.Prompt = accent, accent, accent
	f.SelectedOption = fg(formatter.ColorGreen)
	f.UnselectedOption, f.TextInput.Text = text, text
	f.Description, f.TextInput.Placeholder = dim, dim
	f.FocusedButton = text.Background(formatter.ColorHeader).Padding(0, 1)
	f.BlurredButton = dim.Padding(0, 1)

	b := &t.Blurred
	b.Title, b.SelectSelector, b.SelectedOption, b.UnselectedOption = dim, dim, dim, dim
	b.TextInput.Prompt, b.TextInput.Text = dim, dim
	return t
}

// tacticFormInput collects the fields of `tactic add`.
type tacticFormInput struct {
	Title  string
	LaneID string
	Budget string
}

// tacticAddForm asks for a title, a lane and a budget.
func tacticAddForm(b *board.Board, in *tacticFormInput) *huh.Form {
	options := make([]huh.Option[string], 0, len(b.Lanes))
	for _, l := range b.Lanes {
		options = append(options, huh.NewOption(l.Title, l.ID))
	}
	if in.LaneID == "" && len(b.Lanes) > 0 {
		in.LaneID = b.Lanes[0].ID
	}
	if in.Budget == "0" {
		in.Budget = ""
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tactic").
				Placeholder("SEO Sprint").
				Value(&in.Title).
				Validate(validateRequired("title")),
			huh.NewSelect[string]().
				Title("Lane").
				Options(options...).
				Value(&in.LaneID),
			huh.NewInput().
				Title("Budget ($)").
				Placeholder("0").
				Value(&in.Budget).
				Validate(validateBudget),
		),
	).WithTheme(planboardHuhTheme()).WithShowHelp(false)
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(planboardHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateBudget accepts empty or a non-negative amount.
func validateBudget(s string) error {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter an amount of 0 or more")
	}
	return nil
}
