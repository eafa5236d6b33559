// Package redisstore keeps blobs as Redis string values.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/goliatone/go-sendmoney/pkg/store"
)

// Client is the subset of redis.Cmdable used by the store.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key, e.g. "sendmoney:".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// Store is a BlobStore over a Redis client.
type Store struct {
	client Client
	prefix string
}

// New wraps client.
func New(client Client, options ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("redisstore: client is required")
	}
	s := &Store{client: client}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr string, db int, options ...Option) (*Store, *redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, nil, errors.New("redisstore: address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redisstore: ping %s: %w", addr, err)
	}
	s, err := New(client, options...)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return s, client, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("redisstore: get %s: %w", s.prefix+key, err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", s.prefix+key, err)
	}
	return nil
}
