package persistence

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage marks a failed read or write against the backing medium.
// Callers treat it as fatal to the current operation and do not retry.
var ErrStorage = errors.New("storage failure")

// Store is a get/set/remove interface over named string keys.
// Every value is a complete serialized snapshot; there are no partial writes.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func storageError(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrStorage, op, key, err)
}

type prefixedStore struct {
	inner  Store
	prefix string
}

// WithPrefix namespaces every key of inner. An empty prefix returns inner unchanged.
func WithPrefix(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &prefixedStore{inner: inner, prefix: prefix}
}

func (s *prefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *prefixedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *prefixedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}

func (s *prefixedStore) Ping(ctx context.Context) error {
	if p, ok := s.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
