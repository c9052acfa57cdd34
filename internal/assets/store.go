// Package assets fetches movie artwork through a bounded in-memory cache.
//
// A Store owns the cache and the fetcher. Display code asks a Slot (one per
// poster tile) for URLs; a slot keeps at most one fetch in flight and ignores
// results for URLs it no longer shows.
package assets

import (
	"context"
	"log/slog"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

const (
	// DefaultMaxEntries bounds the number of cached images.
	DefaultMaxEntries = 256
	// DefaultMaxBytes bounds the total cached image bytes (64 MiB).
	DefaultMaxBytes = 64 << 20
)

// Store combines a Cache and a Fetcher.
type Store struct {
	cache   *Cache
	fetcher Fetcher
}

// StoreOption is a functional option for configuring the Store.
type StoreOption func(*Store)

// WithCache injects the cache the store reads and fills.
func WithCache(c *Cache) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.cache = c
		}
	}
}

// NewStore creates a store backed by fetcher.
func NewStore(fetcher Fetcher, opts ...StoreOption) *Store {
	s := &Store{fetcher: fetcher}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewCache(DefaultMaxEntries, DefaultMaxBytes)
	}
	return s
}

// Cache returns the store's cache.
func (s *Store) Cache() *Cache {
	return s.cache
}

// Get returns the bytes for rawURL, fetching them on a cache miss.
// Failed fetches are not cached, so calling Get again retries.
func (s *Store) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, marqueeerrors.NewFetchError(rawURL, err)
	}
	if data, ok := s.cache.Get(key); ok {
		slog.Debug("Asset cache hit", "url", key)
		return data, nil
	}

	data, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, data)
	return data, nil
}

// NewSlot creates a slot that shares this store's cache.
func (s *Store) NewSlot() *Slot {
	return &Slot{store: s}
}

func (s *Store) fetch(ctx context.Context, key string) ([]byte, error) {
	slog.Debug("Asset cache miss, fetching", "url", key)
	data, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		if !marqueeerrors.IsFetchError(err) {
			err = marqueeerrors.NewFetchError(key, err)
		}
		return nil, err
	}
	return data, nil
}
