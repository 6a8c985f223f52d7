package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

// Library implements ports.TemplateLibrary using an in-memory map.
type Library struct {
	templates map[string][]byte
}

// NewLibrary creates a new Library with the provided raw data (serialized
// layout JSON keyed by template name).
func NewLibrary(data map[string]string) *Library {
	templates := make(map[string][]byte)
	for name, raw := range data {
		templates[name] = []byte(raw)
	}
	return &Library{
		templates: templates,
	}
}

// NewLibraryFromLayouts creates a new Library from domain objects.
// This handles serialization automatically, improving DX for tests.
func NewLibraryFromLayouts(layouts map[string]*domain.Layout) (*Library, error) {
	templates := make(map[string][]byte)
	for name, layout := range layouts {
		if name == "" {
			return nil, fmt.Errorf("template missing name")
		}
		data, err := codec.Marshal(layout)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal template %s: %w", name, err)
		}
		templates[name] = data
	}
	return &Library{templates: templates}, nil
}

// GetTemplate retrieves the raw serialized layout for a template by name.
func (l *Library) GetTemplate(name string) ([]byte, error) {
	content, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("template not found: %s", name)
	}
	return content, nil
}

// ListTemplates returns all available template names.
func (l *Library) ListTemplates() ([]string, error) {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
