package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/spf13/cobra"
)

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Browse tactic templates and add them to the board",
	}

	cmd.AddCommand(
		newLibraryListCmd(app),
		newLibraryAddCmd(app),
		newLibraryRemoveCmd(app),
		newLibraryUseCmd(app),
	)

	return cmd
}

func newLibraryListCmd(app *App) *cobra.Command {
	var category categoryValue

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Library.List(cmd.Context(), category.String())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLibrary(items))
			return nil
		},
	}

	cmd.Flags().VarP(&category, "category", "c", "Only show one category")

	return cmd
}

func newLibraryAddCmd(app *App) *cobra.Command {
	var title, description string
	var category categoryValue
	budget := newBudgetValue("0")

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a template to the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := &domain.LibraryTactic{
				Title:         title,
				Description:   description,
				Category:      category.String(),
				DefaultBudget: budget.Amount(),
			}
			if err := app.Library.Create(cmd.Context(), l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added template %s (%s, %s) [%s]\n",
				l.Title, l.Category, export.Money(l.DefaultBudget), l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Template title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Copied into the tactic content when used")
	cmd.Flags().VarP(&category, "category", "c", "Category ("+strings.Join(categoryNames(), ", ")+")")
	cmd.Flags().VarP(budget, "budget", "b", "Default budget")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newLibraryRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a library template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := app.Library.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete template %q?", l.Title), &confirmed).RunWithContext(ctx); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Library.Delete(ctx, l.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", l.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newLibraryUseCmd(app *App) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "use ID LANE",
		Short: "Add a copy of a template to a lane",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.ensureLoaded(ctx); err != nil {
				return err
			}
			laneID, err := resolveLaneID(app.Session.Board(), args[1])
			if err != nil {
				return err
			}
			if position < 0 {
				return fmt.Errorf("--position must be 1 or more (0 appends)")
			}
			t, err := app.Session.InsertFromLibrary(ctx, args[0], laneID, position-1)
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

	cmd.Flags().IntVarP(&position, "position", "p", 0, "1-based position in the lane (0 appends)")

	return cmd
}
