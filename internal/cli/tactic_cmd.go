package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/spf13/cobra"
)

func newTacticCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tactic",
		Aliases: []string{"t"},
		Short:   "Add, edit, move and remove tactics",
	}

	cmd.AddCommand(
		newTacticAddCmd(app),
		newTacticShowCmd(app),
		newTacticEditCmd(app),
		newTacticBudgetCmd(app),
		newTacticRemoveCmd(app),
		newTacticMoveCmd(app),
		newTacticWriteCmd(app),
	)

	return cmd
}

func newTacticAddCmd(app *App) *cobra.Command {
	var lane, title, content string
	budget := newBudgetValue("0")

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tactic to the end of a lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.ensureLoaded(ctx); err != nil {
				return err
			}
			b := app.Session.Board()

			if strings.TrimSpace(title) == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				in := tacticFormInput{Title: title, LaneID: lane, Budget: budget.String()}
				if err := tacticAddForm(b, &in).RunWithContext(ctx); err != nil {
					return fmt.Errorf("add tactic form: %w", err)
				}
				title, lane = in.Title, in.LaneID
				_ = budget.Set(in.Budget)
			}

			laneID, err := resolveLaneID(b, lane)
			if err != nil {
				return err
			}
			t, err := app.Session.AddTactic(laneID, title, budget.Amount(), content)
			if err != nil {
				return err
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s (%s) [%s]\n",
				t.Title, laneID, export.Money(t.Budget), t.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&lane, "lane", "l", "", "Lane id or title (awareness, conversion, retention)")
	cmd.Flags().StringVar(&title, "title", "", "Tactic title")
	cmd.Flags().VarP(budget, "budget", "b", "Budget in dollars; invalid or negative values become 0")
	cmd.Flags().StringVar(&content, "content", "", "Execution notes")

	return cmd
}

func newTacticShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a tactic with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			b := app.Session.Board()
			id, err := resolveTacticID(b, args[0])
			if err != nil {
				return err
			}
			t, _ := b.Tactic(id)
			lane, _ := b.Lane(t.LaneID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTactic(t, lane.Title))
			return nil
		},
	}
}

func newTacticEditCmd(app *App) *cobra.Command {
	var title, content string
	budget := newBudgetValue("")

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a tactic's title, budget or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			id, err := resolveTacticID(app.Session.Board(), args[0])
			if err != nil {
				return err
			}

			var patch domain.TacticPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("budget") {
				v := budget.Amount()
				patch.Budget = &v
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change: pass --title, --budget or --content")
			}

			t, changed := app.Session.EditTactic(id, patch)
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", t.Title, export.Money(t.Budget))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().VarP(budget, "budget", "b", "New budget")
	cmd.Flags().StringVar(&content, "content", "", "New content")

	return cmd
}

func newTacticBudgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "budget ID AMOUNT",
		Short: "Set a tactic's budget",
		Long:  "Set a tactic's budget. Non-numeric or negative amounts are stored as 0.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			id, err := resolveTacticID(app.Session.Board(), args[0])
			if err != nil {
				return err
			}
			t, changed := app.Session.SetBudget(id, args[1])
			if changed {
				if err := app.flush(cmd); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s budget: %s\n", t.Title, export.Money(t.Budget))
			return nil
		},
	}
}

func newTacticRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a tactic from the board",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			b := app.Session.Board()
			id, err := resolveTacticID(b, args[0])
			if err != nil {
				return err
			}
			t, _ := b.Tactic(id)
			if !app.Session.DeleteTactic(id) {
				return fmt.Errorf("tactic not found: %q", args[0])
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", t.Title)
			return nil
		},
	}
}

func newTacticMoveCmd(app *App) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "move ID LANE",
		Short: "Move a tactic to a lane, optionally at a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			b := app.Session.Board()
			id, err := resolveTacticID(b, args[0])
			if err != nil {
				return err
			}
			laneID, err := resolveLaneID(b, args[1])
			if err != nil {
				return err
			}
			if position < 0 {
				return fmt.Errorf("--position must be 1 or more (0 appends)")
			}

			if !app.Session.MoveTactic(id, laneID, position-1) {
				fmt.Fprintln(cmd.OutOrStdout(), "Already there.")
				return nil
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			moved, _ := app.Session.Board().Tactic(id)
			_, idx, _ := app.Session.Board().Locate(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s #%d\n", moved.Title, laneID, idx+1)
			return nil
		},
	}

	cmd.Flags().IntVarP(&position, "position", "p", 0, "1-based position in the lane (0 appends)")

	return cmd
}

func newTacticWriteCmd(app *App) *cobra.Command {
	var instructions string

	cmd := &cobra.Command{
		Use:   "write ID",
		Short: "Draft execution content for a tactic with the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.AIEnabled {
				return errAIDisabled
			}
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			id, err := resolveTacticID(app.Session.Board(), args[0])
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Writing content…")
			}
			t, ok := app.Session.GenerateContent(cmd.Context(), id, instructions)
			stop()
			if !ok {
				return fmt.Errorf("no content generated for %q; check the model configuration", args[0])
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			lane, _ := app.Session.Board().Lane(t.LaneID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTactic(t, lane.Title))
			return nil
		},
	}

	cmd.Flags().StringVarP(&instructions, "instructions", "i", "", "Extra guidance for the draft")

	return cmd
}

var errAIDisabled = errors.New("AI features are disabled; set PLANBOARD_LLM_ENABLED=true or llm.enabled in the config file")
