package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestTTLLRUCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLLRUCache[int](4, time.Minute, WithClock[int](clock.Now))

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}

	clock.now = clock.now.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a alive after 50s")
	}

	// Get 이 만료 시각을 연장했으므로 추가 50초 후에도 살아있음
	clock.now = clock.now.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a alive after sliding refresh")
	}

	clock.now = clock.now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestTTLLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := NewTTLLRUCache[string](2, time.Hour, WithEvictHook(func(key string, _ string) {
		evicted = append(evicted, key)
	}))

	c.Set("a", "A")
	c.Set("b", "B")
	c.Get("a")
	c.Set("c", "C")

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a kept")
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("unexpected evictions: %v", evicted)
	}
}

func TestTTLLRUCache_GetOrCreate(t *testing.T) {
	c := NewTTLLRUCache[*int](2, time.Hour)
	calls := 0
	create := func() *int {
		calls++
		v := calls
		return &v
	}

	first := c.GetOrCreate("p1", create)
	second := c.GetOrCreate("p1", create)
	if first != second || calls != 1 {
		t.Fatalf("expected single creation, calls=%d", calls)
	}

	c.Delete("p1")
	if third := c.GetOrCreate("p1", create); third == first {
		t.Fatal("expected new value after delete")
	}
}

func TestTTLLRUCache_NilSafe(t *testing.T) {
	c := NewTTLLRUCache[int](0, time.Minute)
	if c != nil {
		t.Fatal("expected nil cache for invalid config")
	}
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatal("nil cache must miss")
	}
	if v := c.GetOrCreate("a", func() int { return 7 }); v != 7 {
		t.Fatalf("expected create fallback, got %d", v)
	}
}
