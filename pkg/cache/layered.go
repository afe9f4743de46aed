package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache reads through a fast local layer backed by a remote layer.
// Writes go to both. Remote failures on read fall back to a miss so the
// caller refetches from origin.
type LayeredCache struct {
	local  Service
	remote Service
}

// NewLayeredCache composes a local and a remote cache.
func NewLayeredCache(local, remote Service) *LayeredCache {
	return &LayeredCache{local: local, remote: remote}
}

// Set writes to both layers.
func (l *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := l.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return l.remote.Set(ctx, key, value, ttl)
}

// Get checks the local layer first, then the remote, refilling local on a
// remote hit.
func (l *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := l.local.Get(ctx, key)
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	val, err = l.remote.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, ErrCacheMiss
	}

	_ = l.local.Set(ctx, key, val, 0)
	return val, nil
}

// Delete removes the key from both layers.
func (l *LayeredCache) Delete(ctx context.Context, key string) error {
	lerr := l.local.Delete(ctx, key)
	rerr := l.remote.Delete(ctx, key)
	if lerr != nil {
		return lerr
	}
	return rerr
}

// Exists reports presence in either layer.
func (l *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := l.local.Exists(ctx, key)
	if err == nil && ok {
		return true, nil
	}
	return l.remote.Exists(ctx, key)
}

// Close closes both layers.
func (l *LayeredCache) Close() error {
	lerr := l.local.Close()
	rerr := l.remote.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
