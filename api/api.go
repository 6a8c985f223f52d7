// Package api carries the OpenAPI description of the Lattice HTTP
// surface, embedded so binaries can serve and validate it without any
// files on disk.
package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var Spec []byte

// Document parses and validates the embedded OpenAPI description.
func Document(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI spec is invalid: %w", err)
	}
	return doc, nil
}
