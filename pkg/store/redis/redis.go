// Package redis is a store.Repository backed by Redis.
//
// Each collection is one JSON value under "<prefix><kind>". Saves go through a
// MULTI/EXEC pipeline so a collection is always replaced in one step.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

// DefaultPrefix namespaces platecut keys.
const DefaultPrefix = "platecut:"

// Config describes how to reach Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is the Redis backend.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client. An empty prefix uses DefaultPrefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(kind string) string { return s.prefix + kind }

// get decodes the value at kind; a missing key leaves v untouched.
func (s *Store) get(ctx context.Context, kind string, v any) error {
	data, err := s.client.Get(ctx, s.key(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", kind, err)
	}
	return nil
}

func (s *Store) set(ctx context.Context, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(kind), data, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", kind, err)
	}
	return nil
}

func (s *Store) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	var raws []plate.Raw
	if err := s.get(ctx, store.KindDimensions, &raws); err != nil {
		return nil, err
	}
	return store.DecodeDimensions(raws), nil
}

func (s *Store) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	return s.set(ctx, store.KindDimensions, store.EncodeDimensions(dims))
}

func (s *Store) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	var groups []socket.Group
	if err := s.get(ctx, store.KindSockets, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) SaveGroups(ctx context.Context, groups []socket.Group) error {
	if groups == nil {
		groups = []socket.Group{}
	}
	return s.set(ctx, store.KindSockets, groups)
}

func (s *Store) LoadActiveIndex(ctx context.Context) (int, error) {
	var idx int
	if err := s.get(ctx, store.KindActiveIndex, &idx); err != nil {
		return 0, err
	}
	return idx, nil
}

func (s *Store) SaveActiveIndex(ctx context.Context, index int) error {
	return s.set(ctx, store.KindActiveIndex, index)
}

// Clear deletes every key this store owns.
func (s *Store) Clear(ctx context.Context) error {
	keys := []string{s.key(store.KindDimensions), s.key(store.KindSockets), s.key(store.KindActiveIndex)}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }

var _ store.Repository = (*Store)(nil)
