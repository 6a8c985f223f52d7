package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/lattice/pkg/runner"
)

// NewRenderer returns a markdown renderer backed by glamour, typed so it
// plugs straight into runner.WithTextRenderer. Styling adapts to the
// terminal background.
func NewRenderer() runner.ContentRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
