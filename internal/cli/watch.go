package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/internal/validator"
	loamlib "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/aretw0/lattice/pkg/widgets"
)

// RunWatch executes the template development loop: it renders and inspects
// the library's templates, then re-renders on every file change until
// interrupted.
func RunWatch(opts EditOptions) error {
	logger := createLogger(opts.Debug)
	if !opts.Quiet {
		tui.PrintBanner()
	}

	lib, err := loamlib.Open(opts.TemplatesDir)
	if err != nil {
		return fmt.Errorf("error opening template library: %w", err)
	}

	signals := runner.NewSignalManager(context.Background())
	defer signals.Stop()
	ctx := signals.Context()

	watchCh, err := lib.Watch(ctx)
	if err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}

	logger.Info("Starting Watcher", "path", opts.TemplatesDir, "template", opts.Template)
	printSystemMessage("Watching '%s' for changes.", opts.TemplatesDir)

	renderTemplates(lib, opts, logger)

	for {
		select {
		case <-ctx.Done():
			printSystemMessage("Watcher stopped.")
			return nil
		case _, ok := <-watchCh:
			if !ok {
				return nil
			}
			// Delay slightly to ensure the file system is stable
			time.Sleep(100 * time.Millisecond)
			printSystemMessage("Change detected.")
			renderTemplates(lib, opts, logger)
		}
	}
}

// renderTemplates renders the selected template, or every template when
// none is named. A broken template is reported and skipped: the loop must
// survive half-saved files.
func renderTemplates(lib *loamlib.Library, opts EditOptions, logger *slog.Logger) {
	names := []string{opts.Template}
	if opts.Template == "" {
		all, err := lib.ListTemplates()
		if err != nil {
			logger.Error("Template listing failed", "err", err)
			printSystemMessage("Listing failed: %v", err)
			return
		}
		names = all
	}

	for _, name := range names {
		if err := renderTemplate(lib, name); err != nil {
			logger.Error("Template render failed", "template", name, "err", err)
			fmt.Printf("  %s: %v\n", name, err)
		}
	}
}

func renderTemplate(lib *loamlib.Library, name string) error {
	data, err := lib.GetTemplate(name)
	if err != nil {
		return err
	}
	layout, err := codec.Unmarshal(data)
	if err != nil {
		return err
	}

	report := validator.InspectLayout(layout, widgets.Standard())
	fmt.Printf("  %s: %s\n", name, report.Summary())
	for _, e := range report.Errors {
		fmt.Printf("    error: %s\n", e)
	}
	for _, w := range report.Warnings {
		fmt.Printf("    warning: %s\n", w)
	}
	return nil
}
