// Package file provides a filesystem-backed layout store, keeping each
// document as a pretty-printed JSON file so layouts can live next to the
// project under version control.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.LayoutStore using the local filesystem.
// It stores layouts as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".lattice/layouts".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".lattice", "layouts")
	}
	return &Store{BasePath: basePath}
}

// Save persists the layout to a JSON file atomically: it writes to a
// temporary file in the same directory, syncs, then renames it over the
// destination so readers never observe a partial document.
func (s *Store) Save(ctx context.Context, key string, layout *domain.Layout) error {
	if key == "" {
		return fmt.Errorf("layout key cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure layout directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, key+".json")

	data, err := codec.MarshalIndent(layout)
	if err != nil {
		return err
	}

	// Same directory as the destination keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+key+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file, nor over an existing one.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing layout file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Load retrieves and validates the layout stored in a JSON file.
func (s *Store) Load(ctx context.Context, key string) (*domain.Layout, error) {
	if key == "" {
		return nil, fmt.Errorf("layout key cannot be empty")
	}

	filePath := filepath.Join(s.BasePath, key+".json")

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	layout, err := codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", key, err)
	}
	return layout, nil
}

// Delete removes the layout file. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("layout key cannot be empty")
	}

	filePath := filepath.Join(s.BasePath, key+".json")

	err := os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete layout file: %w", err)
	}
	return nil
}

// List returns all stored layout keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
