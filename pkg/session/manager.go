package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// EditorFactory builds a fresh editor engine seeded with the given document.
// The Manager calls it the first time a key is touched.
type EditorFactory func(initial *domain.Layout) (ports.LayoutEditor, error)

// lockEntry holds the per-key mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates editor access, ensuring operations on one layout key
// run sequentially. It uses reference counting to garbage collect unused
// locks, while cached editors stay alive so undo history survives between
// requests.
type Manager struct {
	store   ports.LayoutStore
	factory EditorFactory

	mu      sync.Mutex // guards locks and editors
	locks   map[string]*lockEntry
	editors map[string]ports.LayoutEditor

	locker  ports.DistributedLocker // optional cross-replica locking
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock is held before it expires on
// its own. Ignored without WithLocker.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session Manager over the given persistence store.
// The factory is invoked once per key to build its editor engine.
func NewManager(store ports.LayoutStore, factory EditorFactory, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: factory,
		locks:   make(map[string]*lockEntry),
		editors: make(map[string]ports.LayoutEditor),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for the given key. When a
// distributed locker is configured, the cross-replica lock is taken after
// the local one and released when fn returns.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// editor returns the cached engine for key, materializing one from the
// store (or from an empty document) on first use. Callers must hold the
// key's lock.
func (m *Manager) editor(ctx context.Context, key string) (ports.LayoutEditor, error) {
	m.mu.Lock()
	ed, ok := m.editors[key]
	m.mu.Unlock()
	if ok {
		return ed, nil
	}

	initial, err := m.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrLayoutNotFound) {
			return nil, fmt.Errorf("failed to load layout %q: %w", key, err)
		}
		initial = domain.NewLayout()
	}

	ed, err = m.factory(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to start editor for %q: %w", key, err)
	}

	m.mu.Lock()
	m.editors[key] = ed
	m.mu.Unlock()
	return ed, nil
}

// Update runs fn against the key's editor under the key's lock, then
// persists the resulting document. Mutations from concurrent callers are
// applied one at a time.
func (m *Manager) Update(ctx context.Context, key string, fn func(context.Context, ports.LayoutEditor) error) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		ed, err := m.editor(ctx, key)
		if err != nil {
			return err
		}
		if err := fn(ctx, ed); err != nil {
			return err
		}
		return m.store.Save(ctx, key, ed.Layout())
	})
}

// View runs fn against the key's editor without persisting afterwards.
// Reads and exports go through here; the lock still serializes them with
// concurrent updates.
func (m *Manager) View(ctx context.Context, key string, fn func(context.Context, ports.LayoutEditor) error) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		ed, err := m.editor(ctx, key)
		if err != nil {
			return err
		}
		return fn(ctx, ed)
	})
}

// Snapshot returns a detached copy of the key's current document. Unlike
// View it does not materialize an editor: a key that is neither cached nor
// stored reports domain.ErrLayoutNotFound.
func (m *Manager) Snapshot(ctx context.Context, key string) (*domain.Layout, error) {
	var snap *domain.Layout
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		m.mu.Lock()
		ed, ok := m.editors[key]
		m.mu.Unlock()
		if ok {
			snap = ed.Layout()
			return nil
		}
		loaded, err := m.store.Load(ctx, key)
		if err != nil {
			return err
		}
		snap = loaded
		return nil
	})
	return snap, err
}

// Save persists the key's cached document explicitly. Keys without a live
// editor report domain.ErrLayoutNotFound.
func (m *Manager) Save(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		m.mu.Lock()
		ed, ok := m.editors[key]
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: no active editor for %q", domain.ErrLayoutNotFound, key)
		}
		return m.store.Save(ctx, key, ed.Layout())
	})
}

// Delete evicts the key's editor and removes the stored document.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.editors, key)
		m.mu.Unlock()
		return m.store.Delete(ctx, key)
	})
}

// Evict drops the in-memory editor for key, discarding its undo history.
// The stored document is untouched. It reports whether an editor existed.
func (m *Manager) Evict(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.editors[key]
	delete(m.editors, key)
	return ok
}

// List returns the keys known to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Active returns the keys with a live editor, sorted.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.editors))
	for key := range m.editors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Store returns the underlying layout store.
func (m *Manager) Store() ports.LayoutStore {
	return m.store
}
