package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout editor UI).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(logger *slog.Logger, opts EditOptions, store ports.LayoutStore, catalog ports.WidgetCatalog) []runner.Option {
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithCatalog(catalog),
	}

	if store != nil {
		runnerOpts = append(runnerOpts, runner.WithStore(store))
		if opts.SaveKey != "" {
			runnerOpts = append(runnerOpts, runner.WithStoreKey(opts.SaveKey))
		}
	}

	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)))
	} else {
		runnerOpts = append(runnerOpts, runner.WithHandler(runner.NewTextHandler(
			os.Stdin, os.Stdout,
			runner.WithTextRenderer(tui.NewRenderer()),
		)))
	}

	return runnerOpts
}

func createDebugHooks(logger *slog.Logger) domain.EditorHooks {
	return domain.EditorHooks{
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.Debug("Mutation Applied", "op", e.Op, "widget_id", e.WidgetID, "widgets", e.WidgetCount)
		},
		OnSnapshot: func(ctx context.Context, e *domain.SnapshotEvent) {
			logger.Debug("History Moved", "type", e.Type, "depth", e.Depth, "cursor", e.Cursor)
		},
		OnAutosave: func(ctx context.Context, e *domain.AutosaveEvent) {
			if e.Err != nil {
				logger.Debug("Autosave Failed", "key", e.Key, "err", e.Err)
			} else {
				logger.Debug("Autosave", "key", e.Key, "widgets", e.WidgetCount)
			}
		},
	}
}
