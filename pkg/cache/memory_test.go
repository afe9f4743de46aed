package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("value"), time.Minute)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryCacheExists(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	ok, err := c.Exists(ctx, "key")
	if err != nil || ok {
		t.Fatalf("expected absent, got ok=%v err=%v", ok, err)
	}

	_ = c.Set(ctx, "key", []byte("value"), time.Minute)
	ok, err = c.Exists(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("expected present, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(WithMaxEntries(2))
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)

	// Touch "a" so "b" becomes the eviction candidate.
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("get a: %v", err)
	}

	_ = c.Set(ctx, "c", []byte("3"), time.Minute)

	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Fatal("expected b evicted")
	}
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatal("expected a retained")
	}
	if _, err := c.Get(ctx, "c"); err != nil {
		t.Fatal("expected c retained")
	}
}

func TestMemoryCachePrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryCache(WithPrefix("one"))
	b := NewMemoryCache(WithPrefix("two"))

	_ = a.Set(ctx, "key", []byte("value"), time.Minute)
	if _, err := b.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatal("prefixes should not collide across instances")
	}
}

func TestGenerateKey(t *testing.T) {
	if got := GenerateKey("chart", "bitcoin", "250"); got != "chart:bitcoin:250" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestGenerateKeyWithParams(t *testing.T) {
	got := GenerateKeyWithParams("markets", map[string]string{
		"vs": "usd",
		"n":  "250",
	})
	if got != "markets:n=250:vs=usd" {
		t.Fatalf("expected deterministic ordering, got %q", got)
	}
}
