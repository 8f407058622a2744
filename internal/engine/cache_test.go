package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	k1 := CacheKey("yt_video", "abc123")
	k2 := CacheKey("yt_video", "abc123")
	k3 := CacheKey("yt_video", "def456")

	if k1 != k2 {
		t.Error("CacheKey is not deterministic")
	}
	if k1 == k3 {
		t.Error("different inputs produced the same key")
	}
	if !strings.HasPrefix(k1, "cs:") {
		t.Errorf("key %q missing namespace prefix", k1)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	Init(Config{CacheTTL: time.Minute})
	InitCache("")
	ctx := context.Background()

	key := CacheKey("test", "roundtrip")
	if _, ok := CacheGet(ctx, key); ok {
		t.Fatal("unexpected hit before set")
	}

	CacheSet(ctx, key, []byte("payload"))
	data, ok := CacheGet(ctx, key)
	if !ok || string(data) != "payload" {
		t.Errorf("CacheGet = (%q, %v), want (payload, true)", data, ok)
	}
}

func TestCacheExpiry(t *testing.T) {
	Init(Config{CacheTTL: 10 * time.Millisecond})
	InitCache("")
	ctx := context.Background()

	key := CacheKey("test", "expiry")
	CacheSet(ctx, key, []byte("payload"))

	time.Sleep(20 * time.Millisecond)
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expired entry still served")
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	Init(Config{CacheTTL: time.Minute})
	InitCache("")
	ctx := context.Background()

	type payload struct {
		Name     string `json:"name"`
		Duration int64  `json:"duration"`
	}

	key := CacheKey("test", "json")
	CacheStoreJSON(ctx, key, payload{Name: "video", Duration: 300})

	got, ok := CacheLoadJSON[payload](ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Name != "video" || got.Duration != 300 {
		t.Errorf("got %+v", got)
	}
}

func TestCacheEviction(t *testing.T) {
	Init(Config{CacheTTL: time.Minute, CacheMaxEntries: 3})
	InitCache("")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		CacheSet(ctx, CacheKey("test", "evict", fmt.Sprintf("%d", i)), []byte("x"))
	}

	count := 0
	fetchCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("L1 holds %d entries, max is 3", count)
	}
}
