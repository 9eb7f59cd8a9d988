// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "store:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestNilPageCacheIsNoOp(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "ab12cd34"); ok {
		t.Error("nil cache reported a hit")
	}
	// Must not panic.
	pc.Set(ctx, "ab12cd34", []byte("html"))
	pc.Invalidate(ctx, "ab12cd34")
	pc.InvalidateAll(ctx)
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	data, ok := pc.Get(ctx, "ab12cd34")
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	html := []byte("<html><body>Trailside Coffee</body></html>")
	pc.Set(ctx, "ab12cd34", html)

	data, ok = pc.Get(ctx, "ab12cd34")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}
}

func TestPageCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, "ef56gh78", []byte("cached"))

	if _, ok := pc.Get(ctx, "ef56gh78"); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	pc.Invalidate(ctx, "ef56gh78")

	if _, ok := pc.Get(ctx, "ef56gh78"); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)

	ctx := context.Background()

	pc.Set(ctx, "slug-a", []byte("a"))
	pc.Set(ctx, "slug-b", []byte("b"))
	pc.Set(ctx, "slug-c", []byte("c"))

	pc.InvalidateAll(ctx)

	for _, slug := range []string{"slug-a", "slug-b", "slug-c"} {
		if _, ok := pc.Get(ctx, slug); ok {
			t.Errorf("slug %q still cached after InvalidateAll", slug)
		}
	}
}
