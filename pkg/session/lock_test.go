package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

type nullStore struct{}

func (nullStore) Save(ctx context.Context, key string, layout *domain.Layout) error {
	return nil
}
func (nullStore) Load(ctx context.Context, key string) (*domain.Layout, error) {
	return nil, domain.ErrLayoutNotFound
}
func (nullStore) Delete(ctx context.Context, key string) error { return nil }
func (nullStore) List(ctx context.Context) ([]string, error)   { return nil, nil }

type nullEditor struct{ doc *domain.Layout }

func (e *nullEditor) Layout() *domain.Layout { return e.doc.Clone() }
func (e *nullEditor) Apply(ctx context.Context, m domain.Mutation) (*domain.MutationResult, error) {
	return &domain.MutationResult{Op: m.Op}, nil
}
func (e *nullEditor) Undo(ctx context.Context) (*domain.Layout, bool) { return nil, false }
func (e *nullEditor) Redo(ctx context.Context) (*domain.Layout, bool) { return nil, false }
func (e *nullEditor) CanUndo() bool                                   { return false }
func (e *nullEditor) CanRedo() bool                                   { return false }
func (e *nullEditor) Clear(ctx context.Context) error                 { return nil }
func (e *nullEditor) Import(ctx context.Context, data []byte) error   { return nil }
func (e *nullEditor) Export(pretty bool) ([]byte, error)              { return nil, nil }

func nullFactory(initial *domain.Layout) (ports.LayoutEditor, error) {
	return &nullEditor{doc: initial}, nil
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nullStore{}, nullFactory)
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("layout-%d", i)
		_ = mgr.Update(ctx, key, func(ctx context.Context, ed ports.LayoutEditor) error {
			return nil
		})
		_ = mgr.Delete(ctx, key)
	}

	// Locks are reference counted: once no goroutine holds a key, its
	// entry must be gone. Editors for deleted keys must be gone too.
	if got := len(mgr.locks); got != 0 {
		t.Errorf("memory leak: %d lock entries remaining after Delete", got)
	}
	if got := len(mgr.editors); got != 0 {
		t.Errorf("memory leak: %d editors remaining after Delete", got)
	}
}

// recordingLocker counts distributed lock round-trips.
type recordingLocker struct {
	mu       sync.Mutex
	acquired int
	released int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.acquired++
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLockerWrapsEveryOperation(t *testing.T) {
	locker := &recordingLocker{}
	mgr := NewManager(nullStore{}, nullFactory,
		WithLocker(locker),
		WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	_ = mgr.Update(ctx, "a", func(ctx context.Context, ed ports.LayoutEditor) error { return nil })
	_, _ = mgr.Snapshot(ctx, "a")
	_ = mgr.Delete(ctx, "a")

	locker.mu.Lock()
	defer locker.mu.Unlock()
	if locker.acquired != 3 || locker.released != 3 {
		t.Errorf("expected 3 acquire/release pairs, got %d/%d", locker.acquired, locker.released)
	}
}
