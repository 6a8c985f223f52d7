// Package validator inspects layout documents beyond the codec's
// pass/fail validation: it names every structural problem it can find,
// flags palette-level issues against a widget catalog, and collects the
// stats the validate command prints.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/schema"
)

// Report summarizes a document inspection. Errors are structural problems
// that make the document unloadable; warnings are palette-level findings
// (unknown types, containment, schema mismatches) that a relaxed editor
// would still accept.
type Report struct {
	Errors   []string
	Warnings []string
	Stats    Stats
}

// Stats carries the document shape counters.
type Stats struct {
	Widgets  int
	Roots    int
	MaxDepth int
	ByType   map[string]int
}

// Ok reports whether the document is structurally sound.
func (r *Report) Ok() bool {
	return len(r.Errors) == 0
}

// Err aggregates the structural errors, or nil when the document is sound.
func (r *Report) Err() error {
	if r.Ok() {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// Summary renders the one-line stats footer.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d widgets, %d roots, max depth %d", r.Stats.Widgets, r.Stats.Roots, r.Stats.MaxDepth)
}

// InspectLayout inspects an already-loaded document.
func InspectLayout(l *domain.Layout, catalog ports.WidgetCatalog) *Report {
	return Inspect(l.Serialized(), catalog)
}

// Inspect checks a raw document. It accepts documents that would fail
// domain validation so it can name every stranded or dangling widget
// instead of stopping at the first. A nil catalog skips the palette
// checks.
func Inspect(doc *domain.SerializedLayout, catalog ports.WidgetCatalog) *Report {
	report := &Report{Stats: Stats{ByType: make(map[string]int)}}

	if doc == nil {
		report.Errors = append(report.Errors, "no document")
		return report
	}

	report.Stats.Widgets = len(doc.Nodes)
	report.Stats.Roots = len(doc.RootNodes)
	for _, node := range doc.Nodes {
		if node == nil {
			continue
		}
		report.Stats.ByType[node.Config.WidgetType]++
	}

	if err := doc.Validate(); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	visited := crawl(report, doc)

	// Anything the crawl never reached is stranded.
	unreachable := make([]string, 0)
	for id := range doc.Nodes {
		if !visited[id] {
			unreachable = append(unreachable, string(id))
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		report.Errors = append(report.Errors, fmt.Sprintf("unreachable widget: %q is not linked from any root", id))
	}

	if catalog != nil {
		inspectCatalog(report, doc, catalog)
	}

	return report
}

// crawl walks the forest breadth-first from the roots, reporting dangling
// references and recording the maximum depth. It returns the set of
// visited ids.
func crawl(report *Report, doc *domain.SerializedLayout) map[domain.WidgetID]bool {
	type frame struct {
		id    domain.WidgetID
		depth int
	}

	visited := make(map[domain.WidgetID]bool)
	queue := make([]frame, 0, len(doc.RootNodes))
	for _, id := range doc.RootNodes {
		queue = append(queue, frame{id: id, depth: 1})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		node, ok := doc.Nodes[current.id]
		if !ok || node == nil {
			report.Errors = append(report.Errors, fmt.Sprintf("missing widget: %q is referenced but not defined", current.id))
			continue
		}
		if current.depth > report.Stats.MaxDepth {
			report.Stats.MaxDepth = current.depth
		}

		for _, child := range node.Children {
			if !visited[child] {
				queue = append(queue, frame{id: child, depth: current.depth + 1})
			}
		}
	}

	return visited
}

// inspectCatalog flags palette-level findings in stable id order.
func inspectCatalog(report *Report, doc *domain.SerializedLayout, catalog ports.WidgetCatalog) {
	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, rawID := range ids {
		id := domain.WidgetID(rawID)
		node := doc.Nodes[id]
		if node == nil {
			continue
		}

		w, err := catalog.Get(node.Config.WidgetType)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("unknown widget type: %q uses %q, which is not in the catalog", id, node.Config.WidgetType))
			continue
		}

		if len(node.Children) > 0 && !w.CanHaveChildren() {
			report.Warnings = append(report.Warnings, fmt.Sprintf("containment: %q is a %s, which does not take children, but has %d", id, node.Config.WidgetType, len(node.Children)))
		}

		if s := w.PropertySchema(); s != nil {
			if err := schema.Validate(s, node.Config.Properties); err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("schema: %q (%s): %v", id, node.Config.WidgetType, err))
			}
		}
	}
}
