// Package tests provides reusable contract suites for Lattice port
// implementations that live outside the ports package itself.
package tests

import (
	"testing"

	"github.com/aretw0/lattice/pkg/ports"
)

// TemplateLibraryContractTest is a reusable test suite that verifies if an
// adapter complies with ports.TemplateLibrary. setupData maps template
// names to the raw serialized layouts the library is expected to serve.
func TemplateLibraryContractTest(t *testing.T, library ports.TemplateLibrary, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetTemplate_Success", func(t *testing.T) {
		for name, expectedContent := range setupData {
			content, err := library.GetTemplate(name)
			if err != nil {
				t.Fatalf("unexpected error getting template %s: %v", name, err)
			}
			if string(content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", name, content, expectedContent)
			}
		}
	})

	t.Run("GetTemplate_NotFound", func(t *testing.T) {
		_, err := library.GetTemplate("non-existent-template")
		if err == nil {
			t.Error("expected error for non-existent template, got nil")
		}
	})

	t.Run("ListTemplates", func(t *testing.T) {
		names, err := library.ListTemplates()
		if err != nil {
			t.Fatalf("unexpected error listing templates: %v", err)
		}
		if len(names) != len(setupData) {
			t.Errorf("expected %d templates, got %d", len(setupData), len(names))
		}
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			seen[name] = true
		}
		for name := range setupData {
			if !seen[name] {
				t.Errorf("template %s missing from list", name)
			}
		}
	})
}
