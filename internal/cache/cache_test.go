// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// newTestCache returns a cache with a controllable clock.
func newTestCache(t *testing.T, ttl time.Duration) (*Cache[string], *time.Time) {
	t.Helper()
	c := New[string]("test", ttl)
	t.Cleanup(c.Close)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetSet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", "alpha")
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	s := c.GetStats()
	if s.Hits != 1 || s.Misses != 1 || s.Keys != 1 {
		t.Errorf("stats = %+v", s)
	}
	if got := c.HitRate(); got != 50 {
		t.Errorf("HitRate = %v, want 50", got)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	c, now := newTestCache(t, time.Minute)
	c.Set("a", "alpha")
	*now = now.Add(30 * time.Second)
	c.Set("b", "beta")

	*now = now.Add(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to survive, it was set later")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	c, now := newTestCache(t, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	*now = now.Add(50 * time.Second)
	c.Set("c", "3")

	*now = now.Add(20 * time.Second)
	c.cleanup()

	s := c.GetStats()
	if s.Evictions != 2 || s.Keys != 1 || !s.LastCleanup.Equal(*now) {
		t.Errorf("stats = %+v", s)
	}
}

func TestGetOrLoad(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != "loaded" {
			t.Fatalf("GetOrLoad = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("fails", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := c.Get("fails"); ok {
		t.Error("errors must not be cached")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New[int]("test-concurrent", time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if got := c.GetStats().Keys; got != 4 {
		t.Errorf("Keys = %d, want 4", got)
	}
}
