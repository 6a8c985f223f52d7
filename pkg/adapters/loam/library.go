// Package loam serves layout templates from a Loam content repository.
// Template files are Markdown/YAML/JSON documents whose frontmatter
// declares the widget tree (see TemplateMetadata); the adapter renders
// each one into the canonical layout document format on demand.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
)

// Library adapts a Loam repository to the ports.TemplateLibrary interface.
type Library struct {
	Repo *loam.TypedRepository[TemplateMetadata]

	// Name labels the library in prompts and logs. Open sets it to the
	// directory base name.
	Name string
}

// New creates a Library over an existing typed repository.
func New(repo *loam.TypedRepository[TemplateMetadata]) *Library {
	return &Library{
		Repo: repo,
	}
}

// Open initializes a Loam repository at path and wraps it in a Library.
//
// Strict mode keeps numeric frontmatter values as json.Number across the
// Markdown/YAML/JSON adapters, so widget properties survive the trip into
// the document without float64 ambiguity. Read-only mode is enforced
// because the editor only ever reads templates.
func Open(path string) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	lib := New(loam.NewTypedRepository[TemplateMetadata](repo))
	lib.Name = filepath.Base(absPath)
	return lib, nil
}

// GetTemplate renders the named template into serialized layout JSON.
// The name may be a file ID (Loam resolves "landing" to landing.md) or a
// frontmatter name, which is matched by scanning the repository.
func (l *Library) GetTemplate(name string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, name)
	if err == nil {
		return l.renderDocument(doc.ID, doc.Data, doc.Content)
	}

	docs, lerr := l.Repo.List(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	for _, d := range docs {
		if d.Data.Name != name {
			continue
		}
		// Re-fetch by file ID so the body content is fully hydrated.
		full, gerr := l.Repo.Get(ctx, d.ID)
		if gerr != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", d.ID, gerr)
		}
		return l.renderDocument(full.ID, full.Data, full.Content)
	}
	return nil, fmt.Errorf("template not found: %s", name)
}

// ListTemplates lists all templates in the repository.
func (l *Library) ListTemplates() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Prefer the frontmatter name, fall back to the file ID.
		rawName := doc.Data.Name
		if rawName == "" {
			rawName = doc.ID
		}
		name := trimExtension(rawName)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: template %q is defined in both %q and %q", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// Watch implements ports.Watchable. Events are coalesced: the channel
// signals that a reload is required, not which file changed.
func (l *Library) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
					// A reload is already pending.
				}
			}
		}
	}()

	return ch, nil
}

// renderDocument builds the layout declared by a template's frontmatter
// and serializes it.
func (l *Library) renderDocument(docID string, meta TemplateMetadata, content string) ([]byte, error) {
	name := meta.Name
	if name == "" {
		name = trimExtension(docID)
	}

	b := dsl.New()
	b.Meta("template", name)

	if meta.Theme != nil {
		b.Theme(themeFromSpec(*meta.Theme))
	}

	// The frontmatter description wins; otherwise the Markdown body
	// doubles as the template's long-form description.
	if meta.Description != "" {
		b.Meta("description", meta.Description)
	} else if body := strings.TrimSpace(content); body != "" {
		b.Meta("description", body)
	}

	for key, value := range meta.Metadata {
		b.Meta(key, normalizeValue(value))
	}

	for i, spec := range meta.Widgets {
		if err := declareWidget(b, "", spec, fmt.Sprintf("widgets[%d]", i)); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
	}

	layout, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	data, err := codec.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template %s: %w", name, err)
	}
	return data, nil
}

// declareWidget registers one widget spec (and its nested children) with
// the builder. parent is the resolved placement from nesting; it takes
// precedence over the spec's own Parent reference.
func declareWidget(b *dsl.Builder, parent string, spec WidgetSpec, label string) error {
	if spec.Type == "" {
		return fmt.Errorf("%s: type is required", label)
	}

	id := spec.ID
	if id == "" {
		id = string(domain.NewWidgetID())
	}

	var w *dsl.WidgetBuilder
	switch {
	case parent != "":
		w = b.Child(parent, id, spec.Type)
	case spec.Parent != "":
		w = b.Child(spec.Parent, id, spec.Type)
	default:
		w = b.Root(id, spec.Type)
	}

	props := spec.Properties
	if len(props) == 0 {
		props = spec.Props
	}
	for key, value := range props {
		w.Property(key, normalizeValue(value))
	}
	for key, value := range spec.Styles {
		w.Style(key, value)
	}
	if len(spec.Classes) > 0 {
		w.Class(spec.Classes...)
	}
	for key, value := range spec.Meta {
		w.Meta(key, normalizeValue(value))
	}

	for i, child := range spec.Children {
		childLabel := fmt.Sprintf("%s.children[%d]", label, i)
		if err := declareWidget(b, id, child, childLabel); err != nil {
			return err
		}
	}
	return nil
}

func themeFromSpec(spec ThemeSpec) domain.ThemeConfig {
	theme := domain.ThemeConfig{
		Name:          spec.Name,
		CSSVariables:  spec.CSSVariables,
		GlobalClasses: spec.GlobalClasses,
		CustomCSS:     spec.CustomCSS,
	}
	if theme.CSSVariables == nil {
		theme.CSSVariables = map[string]string{}
	}
	if theme.GlobalClasses == nil {
		theme.GlobalClasses = []string{}
	}
	return theme
}

// normalizeValue converts decoded frontmatter values into the JSON shapes
// the document model stores: string-keyed maps and []any slices. YAML
// decoders often produce map[any]any, which would not survive the codec.
// json.Number values pass through untouched; the encoder emits them as
// plain numbers.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalizeValue(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprintf("%v", k)] = normalizeValue(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
