package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// EditOptions contains all the configuration for the Edit command.
type EditOptions struct {
	Path         string // document file; empty resolves by convention from Dir
	Dir          string // project directory
	TemplatesDir string
	Template     string // template to start from (requires a template library)
	JSON         bool
	Quiet        bool
	Watch        bool
	Debug        bool
	Discard      bool   // skip writing the document back on exit
	SaveKey      string // store key for autosave; empty disables the store
	StoreDir     string
	RedisAddr    string
	Strict       bool
}

// Execute handles the 'edit' command logic, dispatching to Session or Watch
// mode.
func Execute(opts EditOptions) error {
	// Smart Default for Templates: If not explicitly set by user, check local project
	if opts.TemplatesDir == "templates" {
		candidate := filepath.Join(opts.Dir, "templates")
		if _, err := os.Stat(candidate); err == nil {
			opts.TemplatesDir = candidate
		}
	}

	if opts.Watch {
		if opts.JSON {
			return fmt.Errorf("--watch and --json cannot be used together")
		}
		return RunWatch(opts)
	}

	// Session Mode: pick up the conventional document file when none is named.
	if opts.Path == "" && opts.Dir != "" {
		opts.Path = ResolveDocument(opts.Dir)
	}

	return RunEdit(opts)
}
