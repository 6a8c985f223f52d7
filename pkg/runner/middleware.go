package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// MutationInterceptor is a policy middleware over document mutations. A
// non-nil error blocks the mutation and is reported to the user; the
// document stays untouched.
type MutationInterceptor func(ctx context.Context, m domain.Mutation) error

// MultiInterceptor chains interceptors; the first rejection wins.
func MultiInterceptor(interceptors ...MutationInterceptor) MutationInterceptor {
	return func(ctx context.Context, m domain.Mutation) error {
		for _, interceptor := range interceptors {
			if err := interceptor(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}
}

// AllowAll permits every mutation.
func AllowAll() MutationInterceptor {
	return func(context.Context, domain.Mutation) error {
		return nil
	}
}

// ReadOnly blocks every mutation. Useful for exposing an inspection
// session over a document someone else owns.
func ReadOnly() MutationInterceptor {
	return func(_ context.Context, m domain.Mutation) error {
		return fmt.Errorf("read-only session: %s rejected", m.Op)
	}
}

// ConfirmRemovals prompts through the handler before allowing a removal,
// since removals cascade through the whole subtree. Everything else passes.
func ConfirmRemovals(handler IOHandler) MutationInterceptor {
	return func(ctx context.Context, m domain.Mutation) error {
		if m.Op != domain.OpRemove {
			return nil
		}
		prompt := fmt.Sprintf("remove %s and everything inside it? [y/N]", m.WidgetID)
		if err := handler.SystemOutput(ctx, prompt); err != nil {
			return err
		}
		answer, err := handler.ReadLine(ctx)
		if err != nil {
			return err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "y" || answer == "yes" {
			return nil
		}
		return fmt.Errorf("removal of %s cancelled", m.WidgetID)
	}
}
