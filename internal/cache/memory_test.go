// ABOUTME: Tests for the in-memory TTL cache tier
// ABOUTME: Verifies hit/miss/expired semantics, sweeping, and concurrent access
package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_HitMissExpired(t *testing.T) {
	c := NewMemoryCache[string]()

	if _, err := c.Get("absent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("absent key error = %v, want ErrCacheMiss", err)
	}

	c.Put("k", "v", time.Hour)
	got, err := c.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	// Force expiry by moving the clock
	base := time.Now()
	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := c.Get("k"); !errors.Is(err, ErrCacheExpired) {
		t.Errorf("expired key error = %v, want ErrCacheExpired", err)
	}

	// The expired entry was dropped; a second read is a plain miss
	if _, err := c.Get("k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("re-read error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_NonPositiveTTLNotStored(t *testing.T) {
	c := NewMemoryCache[int]()
	c.Put("k", 1, 0)
	if _, err := c.Get("k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("zero-TTL entry error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	c := NewMemoryCache[int]()
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Put("short", 1, time.Minute)
	c.Put("long", 2, time.Hour)

	c.now = func() time.Time { return base.Add(30 * time.Minute) }
	if dropped := c.Sweep(); dropped != 1 {
		t.Errorf("Sweep() = %d, want 1", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, err := c.Get("long"); err != nil {
		t.Errorf("long entry should survive sweep, got %v", err)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache[int]()
	c.Put("a", 1, time.Hour)
	c.Put("b", 2, time.Hour)

	if n := c.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after clear = %d, want 0", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache[int]()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put(fmt.Sprintf("k%d", j%10), n, time.Hour)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = c.Get(fmt.Sprintf("k%d", j%10))
			}
		}()
	}
	wg.Wait()
}
