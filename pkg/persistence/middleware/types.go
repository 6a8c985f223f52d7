// Package middleware provides composable wrappers around ports.LayoutStore:
// encryption at rest, redaction of sensitive property values, and
// operation metrics. Middlewares stack in front of any store adapter
// without the adapter knowing.
package middleware

import "github.com/aretw0/lattice/pkg/ports"

// Middleware allows wrapping a LayoutStore to add behavior.
type Middleware func(ports.LayoutStore) ports.LayoutStore

// Chain composes middlewares so the first listed is the outermost:
// Chain(a, b)(store) behaves like a(b(store)).
func Chain(mws ...Middleware) Middleware {
	return func(store ports.LayoutStore) ports.LayoutStore {
		for i := len(mws) - 1; i >= 0; i-- {
			store = mws[i](store)
		}
		return store
	}
}
