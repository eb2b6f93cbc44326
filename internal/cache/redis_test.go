package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	r := NewRedis(RedisConfig{Addr: addr, TTL: time.Minute})
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func TestRedis_SetGetDelete(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	if err := r.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := "meetuphub:test:" + uuid.NewString()
	t.Cleanup(func() { _ = r.Delete(context.Background(), key) })

	if _, ok, err := r.Get(ctx, key); err != nil || ok {
		t.Fatalf("get before set: ok=%v err=%v", ok, err)
	}

	if err := r.Set(ctx, key, []byte("hello")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := r.Get(ctx, key)
	if err != nil || !ok || string(got) != "hello" {
		t.Fatalf("get after set: %q ok=%v err=%v", got, ok, err)
	}

	if err := r.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok, err := r.Get(ctx, key); err != nil || ok {
		t.Fatalf("get after delete: ok=%v err=%v", ok, err)
	}
}

func TestRedis_DefaultTTL(t *testing.T) {
	r := NewRedis(RedisConfig{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = r.Close() })

	if r.ttl != 5*time.Second {
		t.Fatalf("ttl = %v, want 5s", r.ttl)
	}
}

var _ Store = (*Redis)(nil)
