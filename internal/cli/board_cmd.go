package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/export"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show, export and edit the plan board",
	}

	cmd.AddCommand(
		newBoardShowCmd(app),
		newBoardExportCmd(app),
		newBoardTUICmd(app),
		newBoardReloadCmd(app),
		newBoardImportCmd(app),
	)

	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every lane with its tactics and budget totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(app.Session.Board(), app.Session.Status()))
			return nil
		},
	}
}

func newBoardExportCmd(app *App) *cobra.Command {
	var formatStr, output, title string
	var withContent bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the plan report as markdown, text, json or yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatStr == "" && output != "" {
				formatStr = filepath.Ext(output)
			}
			format, err := export.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}

			report := export.Build(app.Session.Board(), export.Options{Title: title, IncludeContent: withContent})

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := export.Write(w, report, format); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", format, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "Report format: markdown, text, json, yaml (default from --output extension, else markdown)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().BoolVar(&withContent, "content", false, "Include generated tactic content")

	return cmd
}

func newBoardTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board with keyboard drag and drop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureLoaded(cmd.Context()); err != nil {
				return err
			}
			p := tea.NewProgram(newBoardModel(cmd.Context(), app), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running board view: %w", err)
			}
			return app.flush(cmd)
		},
	}
}

func newBoardReloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Fetch the saved board from the store and show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Reload(cmd.Context()); err != nil {
				return fmt.Errorf("reloading board: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(app.Session.Board(), app.Session.Status()))
			return nil
		},
	}
}
