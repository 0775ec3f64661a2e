package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryStateStore{
		entries: make(map[string]memEntry),
		now:     func() time.Time { return now },
	}

	if err := store.Set(ctx, "refresh:a", []byte("user-1"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "refresh:a")
	if err != nil || string(got) != "user-1" {
		t.Fatalf("Get() = %q, %v; want user-1", got, err)
	}

	t.Run("take redeems once", func(t *testing.T) {
		got, err := store.Take(ctx, "refresh:a")
		if err != nil || string(got) != "user-1" {
			t.Fatalf("Take() = %q, %v; want user-1", got, err)
		}
		got, err = store.Take(ctx, "refresh:a")
		if err != nil || got != nil {
			t.Errorf("second Take() = %q, %v; want nil, nil", got, err)
		}
	})

	t.Run("entries expire", func(t *testing.T) {
		if err := store.Set(ctx, "pwreset:t", []byte("id"), time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		now = now.Add(2 * time.Minute)
		if ok, _ := store.Exists(ctx, "pwreset:t"); ok {
			t.Error("expired key still exists")
		}
		if ok, _ := store.Exists(ctx, "forever"); !ok {
			t.Error("key without ttl expired")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "forever"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if got, _ := store.Get(ctx, "forever"); got != nil {
			t.Errorf("Get() after delete = %q, want nil", got)
		}
	})
}
