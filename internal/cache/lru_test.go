package cache

import (
	"testing"
	"time"
)

func TestLRUGetSetDelete(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %d ok=%v", v, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key should miss")
	}
	if c.Size() != 1 {
		t.Fatalf("size after delete: %d", c.Size())
	}
}

func TestLRUCapacityEviction(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	// Touch a so b becomes the LRU entry.
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry should survive eviction")
	}
	if c.Size() != 2 {
		t.Fatalf("size over capacity: %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should miss")
	}
	if n := c.CleanExpired(); n != 1 {
		// Get already removed "a"; cleanup sweeps the rest.
		t.Fatalf("expected 1 swept entry, got %d", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size after cleanup: %d", c.Size())
	}
}

func TestManagerStop(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](4, time.Millisecond))
	m.StartCleanup(5 * time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	m.Stop() // must not hang or panic
}
