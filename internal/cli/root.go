package cli

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands.
type App struct {
	Session *service.BoardSession
	Library service.LibraryService

	// API serves `planboard serve`. It is nil when the CLI targets a remote
	// store, since a client has no database to expose.
	API    http.Handler
	Server config.ServerConfig

	// AIEnabled reports whether plan and content generation are wired.
	AIEnabled bool

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	loadOnce sync.Once
	loadErr  error
}

// NewRootCmd creates the top-level "planboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planboard",
		Short:         "Marketing plan board with AI suggestions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBoardCmd(app),
		newTacticCmd(app),
		newLibraryCmd(app),
		newPlanCmd(app),
		newServeCmd(app),
	)

	return root
}

// ensureLoaded loads the board once per process.
func (a *App) ensureLoaded(ctx context.Context) error {
	a.loadOnce.Do(func() {
		a.loadErr = a.Session.Load(ctx)
	})
	if a.loadErr != nil {
		return fmt.Errorf("loading board: %w", a.loadErr)
	}
	return nil
}

// flush waits for issued saves and turns recorded failures into an error so
// a one-shot command never exits before its change reached the store.
func (a *App) flush(cmd *cobra.Command) error {
	a.Session.Wait()
	failures := a.Session.Failures()
	if len(failures) == 0 {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatFailures(failures))
	return fmt.Errorf("%d change(s) failed to save", len(failures))
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
