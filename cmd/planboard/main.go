package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/planboard/internal/api"
	"github.com/alexanderramin/planboard/internal/cli"
	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/intelligence"
	"github.com/alexanderramin/planboard/internal/llm"
	"github.com/alexanderramin/planboard/internal/persist"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logOut := logOutput(cfg.Log)
	defer logOut.Close()
	logger := newLogger(logOut, cfg.Log)
	slog.SetDefault(logger)

	app := &cli.App{Server: cfg.Server}

	// Wire stores: a remote planboard server, or the local database.
	var (
		store   repository.RemoteStore
		lanes   repository.LaneRepo
		library repository.LibraryRepo
	)
	if cfg.UsesRemote() {
		remote := repository.NewHTTPStore(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.Timeout.Std())
		store, lanes, library = remote, remote, remote
		logger.Debug("using remote store", "url", cfg.Remote.URL)
	} else {
		database, err := db.OpenDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		tactics := repository.NewSQLiteTacticStore(database)
		laneRepo := repository.NewSQLiteLaneRepo(database)
		libraryRepo := repository.NewSQLiteLibraryRepo(database)
		store, lanes, library = tactics, laneRepo, libraryRepo

		handler := api.NewHandler(tactics, laneRepo, service.NewLibraryService(libraryRepo), cfg.Server.APIKey, version, logger)
		app.API = api.NewRouter(handler)
	}

	observer := service.NewSlogUseCaseObserver(logger)
	app.Library = service.NewLibraryService(library, observer)

	syncer := persist.NewSyncer(store, persist.NewIndicator(cfg.Sync.SettleDelay.Std()),
		persist.WithLogger(logger),
		persist.WithCallTimeout(cfg.Sync.CallTimeout.Std()),
	)
	deps := service.SessionDeps{
		Store:    store,
		Lanes:    lanes,
		Library:  library,
		Syncer:   syncer,
		Logger:   logger,
		Observer: observer,
	}

	// AI collaborators are only wired when the model is enabled.
	if cfg.LLM.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			llmObserver = llm.NewLogObserver(logger)
		}
		client, err := llm.NewClient(cfg.LLM, llmObserver)
		if err != nil {
			return fmt.Errorf("configuring llm: %w", err)
		}
		deps.Suggestions = intelligence.NewSuggestionService(client, logger)
		deps.Content = intelligence.NewContentService(client, logger)
		app.AIEnabled = true
	}
	app.Session = service.NewBoardSession(deps)

	// Detect interactive terminal for forms and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(app)
	root.Version = version
	err = root.ExecuteContext(ctx)
	// Never drop a save on the floor, even when the command failed.
	app.Session.Wait()
	return err
}

// logOutput returns a rotating file when log.file is set, stderr otherwise.
// The board view owns the terminal, so long sessions should log to a file.
func logOutput(cfg config.LogConfig) io.WriteCloser {
	if cfg.File == "" {
		return nopCloser{os.Stderr}
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
