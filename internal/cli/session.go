package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/runner"
)

// RunEdit executes a single interactive editing session.
func RunEdit(opts EditOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.JSON && !opts.Quiet {
		tui.PrintBanner()
	}

	editor, store, err := createEditor(opts, logger)
	if err != nil {
		return fmt.Errorf("error initializing editor: %w", err)
	}

	if !opts.JSON && !opts.Quiet {
		switch {
		case opts.Path != "" && !editor.Layout().IsEmpty():
			printSystemMessage("Editing '%s' (%d widgets).", opts.Path, editor.Layout().WidgetCount())
		case opts.Path != "":
			printSystemMessage("New document '%s'.", opts.Path)
		case opts.Template != "":
			printSystemMessage("Started from template '%s'.", opts.Template)
		}
		if opts.SaveKey != "" {
			printSystemMessage("Autosave active under key '%s'.", opts.SaveKey)
		}
	}

	// The runner owns signal handling; Ctrl+C exits the loop cleanly.
	r := runner.NewRunner(editor, createRunnerOptions(logger, opts, store, editor.Catalog())...)
	if err := r.Run(context.Background()); err != nil {
		return err
	}

	// Write the document back unless the caller opted out.
	if opts.Path != "" && !opts.Discard {
		if err := codec.ExportFile(editor.Layout(), opts.Path); err != nil {
			return fmt.Errorf("error writing document: %w", err)
		}
		if !opts.JSON && !opts.Quiet {
			printSystemMessage("Wrote '%s'.", opts.Path)
		}
	}

	return nil
}
