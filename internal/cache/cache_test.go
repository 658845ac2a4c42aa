// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("spot:nyc-001", "value")

	got, ok := c.Get("spot:nyc-001")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "value" {
		t.Errorf("got %v, want value", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("ephemeral", 42)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("ephemeral"); ok {
		t.Error("expected expired entry to miss")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.SetWithTTL("durable", "v", time.Minute)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("durable"); !ok {
		t.Error("entry with custom TTL expired early")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", "v")
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("deleted key still present")
	}

	// Deleting an absent key must not panic.
	c.Delete("absent")
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Clear()

	if _, ok := c.Get("k0"); ok {
		t.Error("entry survived Clear")
	}

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("total keys after clear = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions < 5 {
		t.Errorf("evictions = %d, want >= 5", stats.Evictions)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if rate := c.HitRate(); rate != 0.0 {
		t.Errorf("empty cache hit rate = %f, want 0", rate)
	}

	c.Set("k", "v")
	c.Get("k")      // hit
	c.Get("absent") // miss

	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("hit rate = %f, want 50", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%7)
				c.Set(key, n)
				c.Get(key)
				if j%25 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()
}

func TestGenerateKey(t *testing.T) {
	type query struct {
		Lat, Lng float64
		Radius   float64
	}

	k1 := GenerateKey("discover", query{40.7, -74.0, 500})
	k2 := GenerateKey("discover", query{40.7, -74.0, 500})
	k3 := GenerateKey("discover", query{40.7, -74.0, 1000})

	if k1 != k2 {
		t.Error("equal params produced different keys")
	}
	if k1 == k3 {
		t.Error("different params produced same key")
	}
	if k1 == GenerateKey("recommend", query{40.7, -74.0, 500}) {
		t.Error("different operations produced same key")
	}
}
