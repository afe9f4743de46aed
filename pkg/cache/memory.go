package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry TTL.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	config  *Config
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...Option) *MemoryCache {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		config:  cfg,
	}
}

// Set stores a value with the given TTL. A zero TTL uses the default.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.config.DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.wrapKey(key)
	if el, ok := m.entries[k]; ok {
		ent := el.Value.(*memoryEntry)
		ent.value = value
		ent.expiresAt = time.Now().Add(ttl)
		m.order.MoveToFront(el)
		return nil
	}

	el := m.order.PushFront(&memoryEntry{
		key:       k,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	m.entries[k] = el

	if m.config.MaxEntries > 0 && m.order.Len() > m.config.MaxEntries {
		m.evictOldest()
	}
	return nil
}

// Get retrieves a value, returning ErrCacheMiss if absent or expired.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.wrapKey(key)
	el, ok := m.entries[k]
	if !ok {
		return nil, ErrCacheMiss
	}

	ent := el.Value.(*memoryEntry)
	if time.Now().After(ent.expiresAt) {
		m.removeElement(el)
		return nil, ErrCacheMiss
	}

	m.order.MoveToFront(el)
	return ent.value, nil
}

// Delete removes a key.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[m.wrapKey(key)]; ok {
		m.removeElement(el)
	}
	return nil
}

// Exists reports whether a key is present and unexpired.
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err != nil {
		if err == ErrCacheMiss {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases cache resources.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

func (m *MemoryCache) evictOldest() {
	el := m.order.Back()
	if el != nil {
		m.removeElement(el)
	}
}

func (m *MemoryCache) removeElement(el *list.Element) {
	ent := el.Value.(*memoryEntry)
	m.order.Remove(el)
	delete(m.entries, ent.key)
}

func (m *MemoryCache) wrapKey(key string) string {
	if m.config.Prefix == "" {
		return key
	}
	return m.config.Prefix + ":" + key
}
