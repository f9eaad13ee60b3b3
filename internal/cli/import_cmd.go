package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/export"
	"github.com/alexanderramin/planboard/internal/importer"
	"github.com/spf13/cobra"
)

func newBoardImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add the tactics of a JSON or YAML plan file to the board",
		Long: `Add every tactic listed in a plan file. The file uses the same shape as
"board export --format json|yaml", so an exported report can be edited and
imported again. Tactics are appended to their lanes; nothing is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			plan, err := importer.LoadPlan(args[0])
			if err != nil {
				return err
			}
			lanes := app.Session.Board().Lanes
			if errs := importer.ValidatePlan(plan, lanes); len(errs) > 0 {
				return fmt.Errorf("invalid plan file:\n%w", errors.Join(errs...))
			}

			entries := importer.Convert(plan, lanes)
			out := cmd.OutOrStdout()
			if dryRun {
				for _, e := range entries {
					fmt.Fprintf(out, "  %-12s %s %s\n", e.LaneID, e.Title, export.Money(e.Budget))
				}
				fmt.Fprintf(out, "Would import %d tactic(s)\n", len(entries))
				return nil
			}

			for _, e := range entries {
				if _, err := app.Session.AddTactic(e.LaneID, e.Title, e.Budget, e.Content); err != nil {
					return err
				}
			}
			if err := app.flush(cmd); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d tactic(s)\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be added without changing the board")
	return cmd
}
