package gueststore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	got, err := store.GetPoints(ctx, "visitor-1")
	if err != nil || got != 0 {
		t.Fatalf("GetPoints on empty key = %d, %v, want 0", got, err)
	}

	if err := store.SetPoints(ctx, "visitor-1", 75); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}

	got, err = store.GetPoints(ctx, "visitor-1")
	if err != nil || got != 75 {
		t.Fatalf("GetPoints = %d, %v, want 75", got, err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	if err := store.SetPoints(ctx, "visitor-2", 30); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := store.GetPoints(ctx, "visitor-2")
	if err != nil || got != 0 {
		t.Fatalf("GetPoints after expiry = %d, %v, want 0", got, err)
	}
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)

	mr.Set(keyPrefix+"visitor-3", "not a number")

	got, err := store.GetPoints(context.Background(), "visitor-3")
	if err != nil || got != 0 {
		t.Fatalf("GetPoints on corrupt value = %d, %v, want 0", got, err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetPoints(ctx, "visitor-4", 10); err != nil {
		t.Fatalf("SetPoints: %v", err)
	}
	got, err := store.GetPoints(ctx, "visitor-4")
	if err != nil || got != 10 {
		t.Fatalf("GetPoints = %d, %v, want 10", got, err)
	}
	got, err = store.GetPoints(ctx, "missing")
	if err != nil || got != 0 {
		t.Fatalf("GetPoints on missing key = %d, %v, want 0", got, err)
	}
}
