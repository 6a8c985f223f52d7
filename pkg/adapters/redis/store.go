// Package redis provides Redis-backed implementations of the persistence
// ports: a layout store with optional TTL and a distributed locker for
// multi-replica deployments.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.LayoutStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored layouts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored layouts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "lattice:layout:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(layoutKey string) string {
	return s.prefix + layoutKey
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the layout to Redis: the serialized document under its
// key, plus an index entry (ZSET scored by expiry) so List stays cheap.
func (s *Store) Save(ctx context.Context, key string, layout *domain.Layout) error {
	data, err := codec.Marshal(layout)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(key), data, s.ttl)

	// Score = expiry unix time; entries without TTL get a far-future score
	// so lazy cleanup never prunes them.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: key,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and validates the layout from Redis.
func (s *Store) Load(ctx context.Context, key string) (*domain.Layout, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	layout, err := codec.Unmarshal([]byte(val))
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", key, err)
	}
	return layout, nil
}

// Delete removes the layout and its index entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored layout keys, lazily pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// Keys whose score passed are expired in Redis already; drop them from
	// the index so List reflects reality.
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired layouts: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
