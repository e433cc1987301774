package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := mc.Set(ctx, "k1", payload{Name: "contractor", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "contractor" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var dest string
	err := mc.Get(context.Background(), "absent", &dest)
	if err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "short", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	var dest string
	if err := mc.Get(ctx, "short", &dest); err != ErrCacheMiss {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "job:lock", time.Minute)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first TryLock to acquire")
	}

	ok, err = mc.TryLock(ctx, "job:lock", time.Minute)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if ok {
		t.Fatal("expected second TryLock to be rejected while held")
	}

	if err := mc.Unlock(ctx, "job:lock"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	ok, err = mc.TryLock(ctx, "job:lock", time.Minute)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !ok {
		t.Fatal("expected TryLock to acquire after Unlock")
	}
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if err := mc.Set(ctx, "b", 2, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	var v int
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	if err := mc.Set(ctx, "c", 3, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := mc.Get(ctx, "b", &v); err != ErrCacheMiss {
		t.Fatalf("expected least recently used key to be evicted, got %v", err)
	}
	if err := mc.Get(ctx, "a", &v); err != nil {
		t.Fatalf("expected recently used key to survive, got %v", err)
	}
}
