package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLLRUCache: 유휴 TTL 기반 LRU 캐시입니다. 조회할 때마다 만료 시각이 갱신됩니다.
type TTLLRUCache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	items      map[string]*list.Element
	order      *list.List
	now        func() time.Time
	onEvict    func(key string, value V)
}

type ttlLRUEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Option: 캐시 생성 옵션입니다.
type Option[V any] func(*TTLLRUCache[V])

// WithClock: 테스트용 시계를 주입합니다.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLLRUCache[V]) { c.now = now }
}

// WithEvictHook: 만료나 용량 초과로 항목이 제거될 때 호출됩니다.
func WithEvictHook[V any](fn func(key string, value V)) Option[V] {
	return func(c *TTLLRUCache[V]) { c.onEvict = fn }
}

// NewTTLLRUCache: TTL LRU 캐시를 생성합니다. 설정이 유효하지 않으면 nil을 반환합니다.
func NewTTLLRUCache[V any](maxEntries int, ttl time.Duration, opts ...Option[V]) *TTLLRUCache[V] {
	if maxEntries <= 0 || ttl <= 0 {
		return nil
	}
	c := &TTLLRUCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get: 캐시에서 값을 조회합니다.
func (c *TTLLRUCache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(*ttlLRUEntry[V])
	if !entry.expiresAt.After(now) {
		c.removeElement(elem)
		return zero, false
	}

	entry.expiresAt = now.Add(c.ttl)
	c.order.MoveToFront(elem)
	return entry.value, true
}

// GetOrCreate: 값이 없으면 create 결과를 저장하고 반환합니다.
func (c *TTLLRUCache[V]) GetOrCreate(key string, create func() V) V {
	if c == nil {
		return create()
	}
	if value, ok := c.Get(key); ok {
		return value
	}

	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		// 다른 고루틴이 먼저 저장함
		entry := elem.Value.(*ttlLRUEntry[V])
		c.mu.Unlock()
		return entry.value
	}
	value := create()
	c.setLocked(key, value)
	c.mu.Unlock()
	return value
}

// Set: 캐시에 값을 저장합니다.
func (c *TTLLRUCache[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

// Delete: 항목을 제거합니다. (evict hook 은 호출하지 않음)
func (c *TTLLRUCache[V]) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		delete(c.items, key)
		c.order.Remove(elem)
	}
}

// Len: 저장된 항목 수를 반환합니다. (만료 대기 항목 포함)
func (c *TTLLRUCache[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLLRUCache[V]) setLocked(key string, value V) {
	expiresAt := c.now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value = &ttlLRUEntry[V]{key: key, value: value, expiresAt: expiresAt}
		return
	}

	elem := c.order.PushFront(&ttlLRUEntry[V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	for len(c.items) > c.maxEntries {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *TTLLRUCache[V]) removeElement(elem *list.Element) {
	entry := elem.Value.(*ttlLRUEntry[V])
	delete(c.items, entry.key)
	c.order.Remove(elem)
	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
