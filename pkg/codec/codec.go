// Package codec serializes layout documents to and from their JSON wire
// format.
//
// The wire format is a single JSON object with four fields:
//
//	{
//	  "version": "1.0",
//	  "root_nodes": ["hero", "footer"],
//	  "nodes": {
//	    "hero":   {"config": {...}, "children": [], "parent": null, "metadata": {}},
//	    "footer": {"config": {...}, "children": [], "parent": null, "metadata": {}}
//	  },
//	  "metadata": {}
//	}
//
// Decoding is strict about structure but lenient about version: every
// decoded document is normalized and validated against the full set of
// layout invariants before a handle is returned, while unknown version
// tags are accepted as-is so newer documents degrade gracefully.
//
// Failures wrap [domain.ErrSerialization] or [domain.ErrDeserialization]
// and keep the underlying cause in the chain, so callers can match either
// the codec sentinel or the structural one with errors.Is.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lattice/pkg/domain"
)

// Marshal encodes the layout as compact JSON.
func Marshal(l *domain.Layout) ([]byte, error) {
	data, err := json.Marshal(l.Serialized())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return data, nil
}

// MarshalIndent encodes the layout as human-readable JSON with two-space
// indentation, suitable for files kept under version control.
func MarshalIndent(l *domain.Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l.Serialized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return data, nil
}

// Unmarshal parses a JSON document, normalizes it and validates every
// structural invariant before returning a layout handle.
//
// Both malformed JSON and structurally invalid documents are reported as
// deserialization failures; the latter additionally match
// [domain.ErrInvalidLayout] in the error chain.
func Unmarshal(data []byte) (*domain.Layout, error) {
	var doc domain.SerializedLayout
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeserialization, err)
	}
	doc.Normalize()
	l, err := domain.NewLayoutFrom(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeserialization, err)
	}
	return l, nil
}

// Write encodes the layout as indented JSON and writes it to w, ending
// with a newline.
func Write(l *domain.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.Serialized()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return nil
}

// Read decodes a layout from r. It applies the same normalization and
// validation as [Unmarshal]. Read does not close r.
func Read(r io.Reader) (*domain.Layout, error) {
	var doc domain.SerializedLayout
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeserialization, err)
	}
	doc.Normalize()
	l, err := domain.NewLayoutFrom(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeserialization, err)
	}
	return l, nil
}

// ExportFile writes the layout to a JSON file at path, creating or
// truncating it.
func ExportFile(l *domain.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(l, f)
}

// ImportFile reads and validates the layout stored at path.
func ImportFile(path string) (*domain.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
