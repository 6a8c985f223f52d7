package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// redactedPlaceholder replaces matched values in the stored copy.
const redactedPlaceholder = "***"

type redactionMiddleware struct {
	next     ports.LayoutStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks the values of
// widget properties and metadata entries whose KEYS match any of the
// patterns. Form widgets routinely carry user-entered defaults
// (passwords, emails), so redaction happens on the stored copy while the
// in-memory document keeps its real values.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.LayoutStore) ports.LayoutStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, key string, layout *domain.Layout) error {
	// Serialized returns a deep copy, so masking here cannot leak into the
	// document the editor keeps working on.
	doc := layout.Serialized()

	for _, node := range doc.Nodes {
		maskMap(node.Config.Properties, m.patterns)
		maskMap(node.Metadata, m.patterns)
	}
	maskMap(doc.Metadata, m.patterns)

	masked, err := domain.NewLayoutFrom(doc)
	if err != nil {
		return err
	}
	return m.next.Save(ctx, key, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, key string) (*domain.Layout, error) {
	return m.next.Load(ctx, key)
}

func (m *redactionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// maskMap replaces values whose keys match, recursing into nested maps.
func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		matched := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = redactedPlaceholder
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
