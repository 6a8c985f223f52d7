package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/adapters/file"
	loamlib "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/widgets"
)

// createEditor initializes a Lattice editor with standard CLI conventions.
// The returned store (possibly nil) is whichever backend the options
// selected, so the runner's explicit 'save' command hits the same place
// autosave does.
func createEditor(opts EditOptions, logger *slog.Logger) (*lattice.Editor, ports.LayoutStore, error) {
	editorOpts := []lattice.Option{
		lattice.WithCatalog(widgets.Standard()),
		lattice.WithLogger(logger),
	}

	if opts.Debug {
		editorOpts = append(editorOpts, lattice.WithHooks(createDebugHooks(logger)))
	}
	if opts.Strict {
		editorOpts = append(editorOpts, lattice.WithStrictContainment())
	}

	store := createStore(opts)
	if store != nil && opts.SaveKey != "" {
		editorOpts = append(editorOpts, lattice.WithStore(store), lattice.WithStoreKey(opts.SaveKey))
	}

	// Document source precedence: named file, then template, then the
	// saved session under SaveKey, then an empty document.
	switch {
	case opts.Path != "":
		layout, err := codec.ImportFile(opts.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// New file: start empty and write it on exit.
				return lattice.New(editorOpts...), store, nil
			}
			return nil, nil, fmt.Errorf("error reading document: %w", err)
		}
		editorOpts = append(editorOpts, lattice.WithLayout(layout))
		return lattice.New(editorOpts...), store, nil

	case opts.Template != "":
		lib, err := loamlib.Open(opts.TemplatesDir)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening template library: %w", err)
		}
		ed, err := lattice.NewFromTemplate(lib, opts.Template, editorOpts...)
		if err != nil {
			return nil, nil, err
		}
		return ed, store, nil

	case store != nil && opts.SaveKey != "":
		ed, err := lattice.Open(context.Background(), store, opts.SaveKey, editorOpts...)
		if err != nil {
			return nil, nil, err
		}
		return ed, store, nil
	}

	return lattice.New(editorOpts...), store, nil
}

// createStore picks the persistence backend from the options. Redis wins
// when an address is given; otherwise a file store is used, but only when a
// save key makes persistence meaningful.
func createStore(opts EditOptions) ports.LayoutStore {
	if opts.RedisAddr != "" {
		return redis.New(opts.RedisAddr, "", 0)
	}
	if opts.SaveKey == "" {
		return nil
	}
	dir := opts.StoreDir
	if dir == "" {
		dir = filepath.Join(opts.Dir, ".lattice", "layouts")
	}
	return file.New(dir)
}

// ResolveDocument finds the conventional document file in a directory:
// layout.json, then page.json, then index.json, then <dirname>.json.
// It returns the empty string when none exists, which starts an empty
// document.
func ResolveDocument(dir string) string {
	candidates := []string{"layout.json", "page.json", "index.json"}
	if base := filepath.Base(dir); base != "." && base != string(filepath.Separator) {
		candidates = append(candidates, base+".json")
	}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
