package runner

import (
	"log/slog"

	"github.com/aretw0/lattice/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures a custom IOHandler.
func WithHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInterceptor configures the mutation policy middleware.
func WithInterceptor(interceptor MutationInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithStore configures the store backing the explicit 'save' command.
func WithStore(store ports.LayoutStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithStoreKey sets the key 'save' writes under. Defaults to the autosave
// key.
func WithStoreKey(key string) Option {
	return func(r *Runner) {
		r.StoreKey = key
	}
}

// WithCatalog configures the catalog backing the 'widgets' command.
func WithCatalog(catalog ports.WidgetCatalog) Option {
	return func(r *Runner) {
		r.Catalog = catalog
	}
}
