package gamedata

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// ttlCache is a bounded LRU whose entries are fresh while now-storedAt < ttl.
// Expiry is judged against the injected clock so tests can move time.
type ttlCache[V any] struct {
	entries *lru.Cache[string, cacheEntry[V]]
	ttl     time.Duration
	now     func() time.Time
}

func newTTLCache[V any](size int, ttl time.Duration, now func() time.Time) (*ttlCache[V], error) {
	entries, err := lru.New[string, cacheEntry[V]](size)
	if err != nil {
		return nil, err
	}
	return &ttlCache[V]{entries: entries, ttl: ttl, now: now}, nil
}

func (c *ttlCache[V]) fresh(e cacheEntry[V]) bool {
	return c.now().Sub(e.storedAt) < c.ttl
}

// get returns a fresh value. Expired entries are dropped on sight.
func (c *ttlCache[V]) get(key string) (V, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !c.fresh(e) {
		c.entries.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *ttlCache[V]) set(key string, v V) {
	c.entries.Add(key, cacheEntry[V]{value: v, storedAt: c.now()})
}

// each visits fresh entries from newest to oldest until fn returns false.
// It does not touch recency.
func (c *ttlCache[V]) each(fn func(key string, v V) bool) {
	keys := c.entries.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		e, ok := c.entries.Peek(keys[i])
		if !ok || !c.fresh(e) {
			continue
		}
		if !fn(keys[i], e.value) {
			return
		}
	}
}

func (c *ttlCache[V]) purge() {
	c.entries.Purge()
}

func (c *ttlCache[V]) len() int {
	return c.entries.Len()
}
