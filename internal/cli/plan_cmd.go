package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "AI-assisted planning",
	}

	cmd.AddCommand(newPlanGenerateCmd(app))

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate DESCRIPTION...",
		Short: "Suggest up to five tactics for a business and spread them over the lanes",
		Example: `  planboard plan generate "Local bakery opening a second store"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.AIEnabled {
				return errAIDisabled
			}
			ctx := cmd.Context()
			if err := app.ensureLoaded(ctx); err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Asking for suggestions…")
			}
			added, err := app.Session.GeneratePlan(ctx, strings.Join(args, " "))
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(out, "No suggestions this time; the board is unchanged.")
				return nil
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d tactic(s):\n", len(added))
			for _, t := range added {
				fmt.Fprintf(out, "  %s %-12s %s %s\n", formatter.TruncID(t.ID), t.LaneID, t.Title, formatter.Dim(export.Money(t.Budget)))
			}
			return nil
		},
	}
}
