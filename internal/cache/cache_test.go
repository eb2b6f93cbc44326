package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := New(time.Minute)

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("get = %q, %v, %v", got, ok, err)
	}

	_ = c.Delete(ctx, "k")

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(time.Second)

	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	_ = c.Set(ctx, "k", []byte("v"))

	c.now = func() time.Time { return base.Add(2 * time.Second) }

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	if c := New(0); c.ttl != 5*time.Second {
		t.Fatalf("ttl = %s, want 5s", c.ttl)
	}
}
