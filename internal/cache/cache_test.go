package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T) (*Cache[string, int], *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](0)
	c.now = clk.Now
	t.Cleanup(c.Close)
	return c, clk
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set(ctx, "a", 1, time.Minute)
	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(t)

	c.Set(ctx, "short", 1, time.Second)
	c.Set(ctx, "forever", 2, 0)

	clk.Advance(2 * time.Second)

	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("expired entry should miss")
	}
	if v, ok := c.Get(ctx, "forever"); !ok || v != 2 {
		t.Error("zero ttl entry should never expire")
	}

	c.evictExpired()
	if c.Len() != 1 {
		t.Errorf("Len() after eviction = %d, want 1", c.Len())
	}
}

func TestDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", 2, 0)
	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("deleted key should miss")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after purge = %d, want 0", c.Len())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New[string, string](time.Millisecond)
	c.Close()
	c.Close()
}
