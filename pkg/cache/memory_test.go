package cache

import (
	"context"
	"errors"
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

	if err := mc.Set(ctx, "k", payload{Name: "btc", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "btc" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var dest string
	err := mc.Get(context.Background(), "missing", &dest)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var dest string
	if err := mc.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired key returned %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", "1", time.Minute)
	mc.Set(ctx, "b", "2", time.Minute)
	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ok, err := mc.Exists(ctx, "a", "b")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("deleted keys still exist")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(time.Millisecond)
	mc.Set(ctx, "c", "3", time.Minute)

	var dest string
	if err := mc.Get(ctx, "a", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest key should be evicted, got %v", err)
	}
	if err := mc.Get(ctx, "c", &dest); err != nil {
		t.Errorf("newest key missing: %v", err)
	}
}
